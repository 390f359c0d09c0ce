package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"

	"github.com/helmcode/casediag/pkg/metrics"
	"github.com/helmcode/casediag/pkg/report"
)

const chartHeight = 10

// DisplayReport writes a rendered case report in the requested format
func DisplayReport(w io.Writer, rep *report.Report, format string) error {
	if done, err := encode(w, rep, format); done {
		return err
	}
	displayReportHuman(w, rep)
	return nil
}

func displayReportHuman(w io.Writer, rep *report.Report) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "📋 CASE #%d", rep.CaseID)
	if rep.Platform != "" {
		fmt.Fprintf(w, " (%s)", rep.Platform)
	}
	fmt.Fprintln(w)
	if rep.Description != "" {
		fmt.Fprintln(w, wrapText(rep.Description, 80, "   "))
	}
	fmt.Fprintln(w)

	white.Fprintln(w, "🔎 ANALYSIS:")
	fmt.Fprintln(w, wrapText(rep.Analysis, 80, "   "))
	fmt.Fprintln(w)

	for _, section := range rep.Sections {
		displaySection(w, section)
	}

	if rep.Chart != nil {
		displayChart(w, rep.Chart)
	}

	if rep.Remediation != nil {
		displayAnalysisHuman(w, rep.Remediation)
	}

	footer(w)
}

func displaySection(w io.Writer, section report.Section) {
	header := color.New(color.FgBlue, color.Bold)
	header.Fprintf(w, "▌ %s\n", section.Title)

	switch {
	case section.Table != nil:
		displayTable(w, section.Table)
	case section.Raw != nil:
		displayRaw(w, section.Raw)
	}

	if section.Suggestion != nil {
		displaySuggestion(w, section.Suggestion.Summary, section.Suggestion.Steps)
	} else if section.NoIssues {
		color.New(color.FgGreen).Fprintln(w, "   ✅ No issues found.")
	}
	fmt.Fprintln(w)
}

// displayTable prints each group as a header row of labels and a value row
func displayTable(w io.Writer, table *report.Table) {
	for _, group := range table.Groups {
		if group.Title != "" {
			fmt.Fprintf(w, "   %s\n", color.HiBlackString(group.Title))
		}

		widths := make([]int, len(group.Fields))
		for i, f := range group.Fields {
			widths[i] = max(len(f.Label), len(f.Value))
		}

		var labels, values strings.Builder
		for i, f := range group.Fields {
			fmt.Fprintf(&labels, "  %-*s", widths[i], f.Label)
			fmt.Fprintf(&values, "  %-*s", widths[i], f.Value)
		}
		fmt.Fprintf(w, "  %s\n", color.New(color.Bold).Sprint(labels.String()))
		fmt.Fprintf(w, "  %s\n", values.String())
	}
}

// displayRaw prints the capture verbatim, whitespace included
func displayRaw(w io.Writer, raw *report.RawDump) {
	if len(raw.Lines) == 0 {
		fmt.Fprintf(w, "   %s\n", color.HiBlackString("(empty)"))
		return
	}
	for _, line := range raw.Lines {
		fmt.Fprintf(w, "   │ %s\n", line)
	}
}

func displaySuggestion(w io.Writer, summary string, steps []string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintln(w, "   ⚠️  Suggestions:")
	fmt.Fprintln(w, wrapText(summary, 80, "      "))
	for i, step := range steps {
		fmt.Fprintf(w, "      %d. %s\n", i+1, step)
	}
}

func displayChart(w io.Writer, series *metrics.ChartSeries) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(w, "📈 %s\n", strings.ToUpper(series.Label))

	if len(series.Dataset) > 1 {
		graph := asciigraph.Plot(series.Dataset,
			asciigraph.Height(chartHeight),
			asciigraph.Precision(1),
			asciigraph.Caption(fmt.Sprintf("%s to %s", series.Labels[0], series.Labels[len(series.Labels)-1])),
		)
		fmt.Fprintln(w, graph)
	} else {
		fmt.Fprintf(w, "   %s: %.1f%%\n", series.Labels[0], series.Dataset[0])
	}

	s := series.Summary
	utilization := getSeverityColor(s.Utilization)
	fmt.Fprintf(w, "   Current: %.1f%%  Avg: %.1f%%  Peak: %.1f%%  Min: %.1f%%  Trend: %s  Utilization: %s\n\n",
		s.Current, s.Average, s.Peak, s.Minimum, s.Trend, utilization.Sprint(s.Utilization))
}
