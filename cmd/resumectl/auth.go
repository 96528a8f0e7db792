package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"resume-builder/internal/apiclient"
	"resume-builder/internal/resumecache"
)

// readPassword and isTerminal are swapped out in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptPassword reads without echo on a terminal and falls back to one
// line of input otherwise, so passwords can be piped in.
func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := readPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd, opts, func(s *session, password string) (apiclient.AuthResult, error) {
				return s.client.Register(cmd.Context(), email, password, name)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd, opts, func(s *session, password string) (apiclient.AuthResult, error) {
				return s.client.Login(cmd.Context(), email, password)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func authenticate(cmd *cobra.Command, opts *rootOptions, call func(*session, string) (apiclient.AuthResult, error)) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}
	res, err := call(s, password)
	if err != nil {
		return errors.New(resumecache.Message(err))
	}
	if err := s.signOut(); err != nil {
		return err
	}
	if err := s.saveToken(res.Token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", res.User.Email)
	return nil
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.signOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			user, err := s.client.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			name := ""
			if user.Name != nil {
				name = *user.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.Email, name)
			return nil
		},
	}
}
