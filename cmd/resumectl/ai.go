package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/apiclient"
	"resume-builder/internal/resume"
)

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var in apiclient.SuggestInput
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask for rewrites of a work description",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			out, err := s.client.Suggest(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			for i, line := range out.Suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Suggestions used: %d\n", out.UsageCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Description, "description", "", "text to improve")
	cmd.Flags().StringVar(&in.JobRole, "role", "", "job title for context")
	cmd.Flags().StringVar(&in.CompanyName, "company", "", "company for context")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newTransformCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "transform [text]",
		Short: "Turn CV text or a PDF/DOCX file into a new working resume",
		Long: `transform sends CV text, or with --file a PDF or DOCX, to the API and
replaces the working resume with the structured result. The result gets a
fresh resume id on the next save. With no text and no file, text is read
from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}

			var doc resume.Document
			switch {
			case file != "":
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open %s: %w", file, err)
				}
				defer f.Close()
				doc, err = s.client.TransformFile(cmd.Context(), filepath.Base(file), f)
				if err != nil {
					return explain(err)
				}
			default:
				text := strings.Join(args, " ")
				if text == "" {
					raw, err := readInput(cmd, "-")
					if err != nil {
						return err
					}
					text = string(raw)
				}
				doc, err = s.client.Transform(cmd.Context(), text)
				if err != nil {
					return explain(err)
				}
			}

			s.store.HydrateWithID(doc, "")
			fmt.Fprintf(cmd.OutOrStdout(), "Transformed %q\n", doc.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "PDF or DOCX file to upload")
	return cmd
}

func newUsageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show AI feature usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			if err := s.requireToken(); err != nil {
				return err
			}
			sug, err := s.client.SuggestionUsage(cmd.Context())
			if err != nil {
				return explain(err)
			}
			tr, err := s.client.TransformUsage(cmd.Context())
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ai suggestions\t%d/%d\n", sug.UsageCount, sug.MaxUsage)
			fmt.Fprintf(cmd.OutOrStdout(), "transform\t%d/%d\n", tr.UsageCount, tr.MaxUsage)
			return nil
		},
	}
}
