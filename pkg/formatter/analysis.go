package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/helmcode/casediag/pkg/model"
)

// DisplayAnalysis writes an AI remediation answer in the requested format
func DisplayAnalysis(w io.Writer, analysis *model.Analysis, format string) error {
	if done, err := encode(w, analysis, format); done {
		return err
	}
	displayAnalysisHuman(w, analysis)
	footer(w)
	return nil
}

func displayAnalysisHuman(w io.Writer, analysis *model.Analysis) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)

	if analysis.Problem != "" {
		white.Fprintln(w, "🩺 PROBLEM:")
		fmt.Fprintf(w, "   %s\n\n", analysis.Problem)
	}

	red.Fprintln(w, "💡 ROOT CAUSE IDENTIFIED:")
	fmt.Fprintf(w, "   %s\n\n", analysis.RootCause)

	getSeverityColor(analysis.Severity).Fprintf(w, "📊 OVERALL SEVERITY: %s\n\n", strings.ToUpper(analysis.Severity))

	if len(analysis.Issues) > 0 {
		yellow.Fprintln(w, "⚠️  ISSUES FOUND:")
		for i, issue := range analysis.Issues {
			fmt.Fprintf(w, "   %d. %s %s\n", i+1, getSeverityIcon(issue.Severity), issue.Component)
			fmt.Fprintf(w, "      %s\n", issue.Description)
			if issue.Evidence != "" {
				fmt.Fprintf(w, "      Evidence: %s\n", color.YellowString(issue.Evidence))
			}
			fmt.Fprintln(w)
		}
	}

	if analysis.QuickFix != "" {
		green.Fprintln(w, "🚀 QUICK FIX:")
		fmt.Fprintf(w, "   %s\n\n", color.GreenString(analysis.QuickFix))
	}

	if len(analysis.Suggestions) > 0 {
		cyan.Fprintln(w, "💡 SUGGESTIONS:")
		for i, suggestion := range analysis.Suggestions {
			fmt.Fprintf(w, "   %d. %s %s\n", i+1, getPriorityIcon(suggestion.Priority), suggestion.Action)
			if suggestion.Command != "" {
				fmt.Fprintf(w, "      Command: %s\n", color.CyanString(suggestion.Command))
			}
			if suggestion.Explanation != "" {
				fmt.Fprintf(w, "      Why: %s\n", suggestion.Explanation)
			}
			fmt.Fprintln(w)
		}
	}

	if analysis.FullAnalysis != "" {
		white.Fprintln(w, "📄 DETAILED ANALYSIS:")
		fmt.Fprintln(w, wrapText(analysis.FullAnalysis, 80, "   "))
		fmt.Fprintln(w)
	}
}
