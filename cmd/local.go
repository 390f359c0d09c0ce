package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/casediag/pkg/analyzer"
	"github.com/helmcode/casediag/pkg/capture"
	"github.com/helmcode/casediag/pkg/formatter"
	"github.com/helmcode/casediag/pkg/logging"
	"github.com/helmcode/casediag/pkg/model"
	"github.com/helmcode/casediag/pkg/report"
)

// loadResultsFile reads a results payload; .yaml and .yml files are YAML,
// anything else JSON.
func loadResultsFile(path string) (*model.AnalysisPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	payload := model.NewAnalysisPayload()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, payload)
	default:
		err = json.Unmarshal(data, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}
	return payload, nil
}

// localCase wraps a payload in a case analyzed by the built-in rules
func localCase(payload *model.AnalysisPayload, description string) *model.Case {
	analysis, suggestions := analyzer.AnalyzeResults(payload)
	return &model.Case{
		Description:  description,
		Platform:     "local",
		Analysis:     analysis,
		AnalysisData: payload,
		Suggestions:  suggestions,
	}
}

func NewReportCmd() *cobra.Command {
	var ai aiFlags
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render a results file without contacting the services",
		Long: `Render a results file offline. Suggestions come from the built-in rules,
the same heuristics the Diagnostic Service applies on upload.

Examples:
  # Render a capture script result
  casediag report case_12_results_1714550400.json

  # Render a local capture with an AI remediation plan
  casediag capture -f now.json && casediag report now.json --ai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !formatter.ValidFormat(outputFormat) {
				return fmt.Errorf("unknown output format %q (use human, json or yaml)", outputFormat)
			}
			payload, err := loadResultsFile(args[0])
			if err != nil {
				return err
			}

			c := localCase(payload, filepath.Base(args[0]))
			rep := report.NewRenderer(nil).Render(c)

			if ai.enabled {
				s, err := newSession()
				if err != nil {
					return err
				}
				if err := s.remediate(cmd.Context(), ai, rep, c); err != nil {
					printWarning(err.Error())
				}
			}

			if outputFormat == formatter.FormatHuman {
				printCaseHeader(rep)
			}
			return formatter.DisplayReport(os.Stdout, rep, outputFormat)
		},
	}
	ai.register(cmd)
	return cmd
}

func NewCaptureCmd() *cobra.Command {
	var (
		file     string
		samples  int
		interval time.Duration
		show     bool
		uploadTo string
	)
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture diagnostics from this host",
		Long: `Sample CPU, memory, swap, load, uptime, disks and listening sockets of the
local host and write them as a results file in the format the capture
script produces.

Examples:
  # Write a results file
  casediag capture -f results.json

  # Sample CPU ten times, two seconds apart, and upload to case 12
  casediag capture --samples 10 --interval 2s --upload 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger(verbose)
			collector := capture.NewCollector(capture.Options{Samples: samples, Interval: interval}, logger)

			sp := newSpinner(fmt.Sprintf("Sampling host for %s...", time.Duration(samples)*interval))
			sp.Start()
			payload, err := collector.Collect(cmd.Context())
			sp.Stop()
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Captured %d tests", payload.Len()))

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}

			if file == "" {
				file = fmt.Sprintf("local_results_%d.json", time.Now().Unix())
			}
			if file == "-" {
				fmt.Println(string(data))
			} else {
				if err := os.WriteFile(file, data, 0o644); err != nil {
					return fmt.Errorf("failed to write results file: %w", err)
				}
				printSuccess(fmt.Sprintf("Saved %s", file))
			}

			if uploadTo != "" {
				return uploadCaptured(cmd, uploadTo, file, data)
			}
			if show {
				rep := report.NewRenderer(nil).Render(localCase(payload, "local capture"))
				return formatter.DisplayReport(os.Stdout, rep, outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Results file to write (- for stdout)")
	cmd.Flags().IntVar(&samples, "samples", capture.DefaultOptions().Samples, "Number of CPU samples")
	cmd.Flags().DurationVar(&interval, "interval", capture.DefaultOptions().Interval, "Time between CPU samples")
	cmd.Flags().BoolVar(&show, "show", false, "Render the captured results")
	cmd.Flags().StringVar(&uploadTo, "upload", "", "Upload the results to this case")
	return cmd
}

func uploadCaptured(cmd *cobra.Command, caseArg, file string, data []byte) error {
	id, err := parseCaseID(caseArg)
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

	name := filepath.Base(file)
	if file == "-" {
		name = fmt.Sprintf("case_%d_results_%d.json", id, time.Now().Unix())
	}

	sp := newSpinner("Uploading results...")
	sp.Start()
	msg, err := s.diagnostics.Upload(cmd.Context(), cred, id, name, bytes.NewReader(data))
	sp.Stop()
	if err != nil {
		printError("Error uploading file")
		return err
	}
	printSuccess(msg)
	return nil
}
