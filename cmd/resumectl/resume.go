package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/resume"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the working resume as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.store.Snapshot())
		},
	}
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start over from the default resume",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			s.store.ResetToInitial()
			fmt.Fprintln(cmd.OutOrStdout(), "Started a new resume")
			return nil
		},
	}
}

func newTitleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "title <text>",
		Short: "Set the resume title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			s.store.SetTitle(strings.Join(args, " "))
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Replace the working resume with a JSON document",
		Long: `import reads a resume JSON document and makes it the working resume.
Unknown or mistyped fields are dropped. The current resume id is kept, so a
later save overwrites the same history entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			payload, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := resume.ParseUntrusted(payload)
			if err != nil {
				return err
			}
			s.store.Hydrate(doc)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q\n", doc.Title)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return payload, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
