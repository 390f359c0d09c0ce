package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/casediag/pkg/client"
	"github.com/helmcode/casediag/pkg/formatter"
	"github.com/helmcode/casediag/pkg/model"
)

func NewCasesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "List your cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.credential()
			if err != nil {
				return err
			}

			sp := newSpinner("Fetching cases...")
			sp.Start()
			var cases []model.Case
			if all {
				cases, err = s.cases.ListAllCases(cmd.Context(), cred)
			} else {
				cases, err = s.cases.ListCases(cmd.Context(), cred)
			}
			sp.Stop()
			if err != nil {
				return fmt.Errorf("failed to list cases: %w", err)
			}
			return formatter.DisplayCases(os.Stdout, cases, outputFormat)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every user's cases (admin only)")
	return cmd
}

func NewCreateCmd() *cobra.Command {
	var description, platform string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new case",
		Long: `Open a new case and print its id.

Examples:
  # Open a case for a Linux host
  casediag create -d "API latency spikes every evening"

  # Then fetch the capture script for it
  casediag script 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if description == "" || platform == "" {
				return errors.New("description and platform are required")
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.credential()
			if err != nil {
				return err
			}

			id, err := s.cases.CreateCase(cmd.Context(), cred, description, platform)
			if err != nil {
				return fmt.Errorf("failed to create case: %w", err)
			}
			if outputFormat != formatter.FormatHuman {
				return formatter.Display(os.Stdout, map[string]int{"case_id": id}, outputFormat)
			}
			printSuccess(fmt.Sprintf("Case #%d created", id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "What is going wrong")
	cmd.Flags().StringVar(&platform, "platform", "linux", "Platform of the affected host")
	return cmd
}

func NewCommentsCmd() *cobra.Command {
	var add string
	cmd := &cobra.Command{
		Use:   "comments CASE_ID",
		Short: "Show or add comments on a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCaseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.credential()
			if err != nil {
				return err
			}

			if add != "" {
				msg, err := s.cases.AddComment(cmd.Context(), cred, id, add)
				if err != nil {
					return fmt.Errorf("failed to add comment: %w", err)
				}
				printSuccess(msg)
			}

			comments, err := s.cases.ListComments(cmd.Context(), cred, id)
			if err != nil {
				return fmt.Errorf("failed to fetch comments: %w", err)
			}
			return formatter.DisplayComments(os.Stdout, comments, outputFormat)
		},
	}
	cmd.Flags().StringVar(&add, "add", "", "Post a comment before listing")
	return cmd
}

func NewScriptCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "script CASE_ID",
		Short: "Download the capture script for a case",
		Long: `Download the shell script that collects diagnostics from the affected host
and uploads them to the case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCaseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession()
			if err != nil {
				return err
			}
			cred, err := s.credential()
			if err != nil {
				return err
			}

			sp := newSpinner("Downloading script...")
			sp.Start()
			script, err := s.diagnostics.DownloadScript(cmd.Context(), cred, id)
			sp.Stop()
			if err != nil {
				return fmt.Errorf("failed to download script: %w", err)
			}

			if out == "-" {
				_, err := os.Stdout.Write(script)
				return err
			}
			if out == "" {
				out = client.ScriptFilename(id)
			}
			if err := os.WriteFile(out, script, 0o755); err != nil {
				return fmt.Errorf("failed to save script: %w", err)
			}
			printSuccess(fmt.Sprintf("Saved %s", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "O", "", "Where to save the script (- for stdout)")
	return cmd
}
