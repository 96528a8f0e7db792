package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/history"
	"resume-builder/internal/resume"
	"resume-builder/internal/resumecache"
)

func newSaveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the working resume to your history",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			snap, err := s.bridge.SnapshotForSave()
			if err != nil {
				return err
			}
			prev := s.cache.State()
			now := time.Now().UnixMilli()
			if _, ok := findEntry(prev.Resumes, snap.ResumeID); ok {
				s.cache.UpdateResume(snap.ResumeID, snap.Serialized, now)
			} else {
				s.cache.AddResume(history.Entry{ResumeID: snap.ResumeID, Data: snap.Serialized, UpdatedAt: now})
			}
			list, err := s.client.SaveResume(cmd.Context(), snap.ResumeID, snap.Serialized, "")
			if err != nil {
				s.cache.Revert(prev)
				return explain(err)
			}
			s.cache.SetResumes(list)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", snap.ResumeID)
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved resumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			list, err := s.cache.GetOrFetch(cmd.Context(), refresh)
			if err != nil {
				return explain(err)
			}
			printEntries(cmd.OutOrStdout(), list, s.store.ResumeID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the local cache")
	return cmd
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "load <resume-id>",
		Short: "Make a saved resume the working resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			list, err := s.cache.GetOrFetch(cmd.Context(), refresh)
			if err != nil {
				return explain(err)
			}
			entry, ok := findEntry(list, args[0])
			if !ok {
				return fmt.Errorf("no saved resume with id %s", args[0])
			}
			doc := s.bridge.HydrateFromHistory(entry.Data, entry.ResumeID)
			if doc == nil {
				return fmt.Errorf("saved resume %s is not a valid document", entry.ResumeID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %q\n", doc.Title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore the local cache")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resume-id>",
		Short: "Move a saved resume to the bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateHistory(cmd, opts, func(c *resumecache.Cache) {
				c.DeleteResume(args[0])
			}, func(s *session) ([]history.Entry, error) {
				return s.client.DeleteResume(cmd.Context(), args[0])
			}, "Deleted")
		},
	}
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <resume-id>",
		Short: "Bring back a deleted resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateHistory(cmd, opts, nil, func(s *session) ([]history.Entry, error) {
				return s.client.RestoreResume(cmd.Context(), args[0])
			}, "Restored")
		},
	}
}

// mutateHistory applies the local edit, if any, before calling the server and
// reverts it when the call fails. The server's list replaces the cache on success.
func mutateHistory(cmd *cobra.Command, opts *rootOptions, apply func(*resumecache.Cache), call func(*session) ([]history.Entry, error), verb string) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	if err := s.requireToken(); err != nil {
		return err
	}
	prev := s.cache.State()
	if apply != nil {
		apply(s.cache)
	}
	list, err := call(s)
	if err != nil {
		s.cache.Revert(prev)
		return explain(err)
	}
	s.cache.SetResumes(list)
	fmt.Fprintln(cmd.OutOrStdout(), verb)
	return nil
}

func findEntry(list []history.Entry, resumeID string) (history.Entry, bool) {
	for _, e := range list {
		if e.ResumeID == resumeID {
			return e, true
		}
	}
	return history.Entry{}, false
}

func printEntries(w io.Writer, list []history.Entry, current string) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved resumes")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tRESUME ID\tTITLE\tUPDATED")
	for _, e := range list {
		marker := ""
		if e.ResumeID == current {
			marker = "*"
		}
		title := ""
		if doc, err := resume.ParseUntrusted([]byte(e.Data)); err == nil {
			title = doc.Title
		}
		updated := time.UnixMilli(e.UpdatedAt).Local().Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, e.ResumeID, title, updated)
	}
	_ = tw.Flush()
}
