package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/casediag/pkg/formatter"
	"github.com/helmcode/casediag/pkg/report"
	"github.com/helmcode/casediag/pkg/view"
)

func NewShowCmd() *cobra.Command {
	var ai aiFlags
	cmd := &cobra.Command{
		Use:   "show CASE_ID",
		Short: "Render the diagnostic report of a case",
		Long: `Fetch a case and render its uploaded diagnostics: a table for each recognized
capture, the raw output for everything else, the suggestions for each test
and a chart of CPU usage.

Examples:
  # Show case 42
  casediag show 42

  # Add an AI remediation plan
  casediag show 42 --ai --provider openai

  # Machine-readable output
  casediag show 42 -o json`,
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

			v := view.New(s.cases, s.diagnostics, report.NewRenderer(nil), cred)

			sp := newSpinner(fmt.Sprintf("Fetching case #%d...", id))
			sp.Start()
			err = v.Load(cmd.Context(), id)
			sp.Stop()
			if err != nil {
				printError(v.Message())
				return err
			}

			return displayView(cmd, s, ai, v)
		},
	}
	ai.register(cmd)
	return cmd
}

func NewUploadCmd() *cobra.Command {
	var ai aiFlags
	cmd := &cobra.Command{
		Use:   "upload CASE_ID FILE",
		Short: "Upload a results file and show the new analysis",
		Long: `Upload the results file produced by the capture script (or by
"casediag capture"). The Diagnostic Service analyzes it, and the refreshed
report is rendered.`,
		Args: cobra.ExactArgs(2),
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

			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open results file: %w", err)
			}
			defer file.Close()

			v := view.New(s.cases, s.diagnostics, report.NewRenderer(nil), cred)

			sp := newSpinner(fmt.Sprintf("Fetching case #%d...", id))
			sp.Start()
			err = v.Load(cmd.Context(), id)
			sp.Stop()
			if err != nil {
				printError(v.Message())
				return err
			}

			sp = newSpinner("Uploading and analyzing...")
			sp.Start()
			err = v.Upload(cmd.Context(), filepath.Base(args[1]), file)
			sp.Stop()
			if err != nil {
				printError(v.Message())
				return err
			}
			printSuccess(v.Message())

			return displayView(cmd, s, ai, v)
		},
	}
	ai.register(cmd)
	return cmd
}

func displayView(cmd *cobra.Command, s *session, ai aiFlags, v *view.CaseView) error {
	snap := v.Snapshot()
	if snap.State != view.StateLoaded || snap.Report == nil {
		return fmt.Errorf("case #%d is %s", snap.CaseID, snap.State)
	}

	if err := s.remediate(cmd.Context(), ai, snap.Report, snap.Case); err != nil {
		printWarning(err.Error())
	}

	if outputFormat == formatter.FormatHuman {
		printCaseHeader(snap.Report)
	}
	return formatter.DisplayReport(os.Stdout, snap.Report, outputFormat)
}

func printCaseHeader(rep *report.Report) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🩺 Case Diagnostics")
	fmt.Printf("📊 Tests: %d\n", len(rep.Sections))
	issues := 0
	for _, section := range rep.Sections {
		if !section.NoIssues {
			issues++
		}
	}
	fmt.Printf("⚠️  With suggestions: %d\n", issues)
}
