package report

import (
	"strings"

	"github.com/helmcode/casediag/pkg/analyzer"
	"github.com/helmcode/casediag/pkg/metrics"
	"github.com/helmcode/casediag/pkg/model"
)

// TableKind identifies which extractor produced a table
type TableKind string

const (
	KindCPU         TableKind = "cpu"
	KindMemory      TableKind = "memory"
	KindLoadAverage TableKind = "load_average"
)

// Field is one labelled value of a table
type Field struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FieldGroup is one row of a table with its column labels
type FieldGroup struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Table is the structured rendering of a recognized capture
type Table struct {
	Kind   TableKind    `json:"kind" yaml:"kind"`
	Groups []FieldGroup `json:"groups" yaml:"groups"`
}

// RawDump is the verbatim rendering of a capture that has no table
type RawDump struct {
	Lines []string `json:"lines" yaml:"lines"`
}

// Text joins the lines with newlines, leaving whitespace untouched
func (d RawDump) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Section is the rendering of one test. Exactly one of Table and Raw is set,
// and exactly one of Suggestion and NoIssues.
type Section struct {
	Test       string                  `json:"test" yaml:"test"`
	Title      string                  `json:"title" yaml:"title"`
	Table      *Table                  `json:"table,omitempty" yaml:"table,omitempty"`
	Raw        *RawDump                `json:"raw,omitempty" yaml:"raw,omitempty"`
	Suggestion *analyzer.SuggestionSet `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	NoIssues   bool                    `json:"no_issues" yaml:"no_issues"`
}

// Report is everything shown for one case
type Report struct {
	CaseID      int                  `json:"case_id" yaml:"case_id"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Platform    string               `json:"platform,omitempty" yaml:"platform,omitempty"`
	Analysis    string               `json:"analysis" yaml:"analysis"`
	Sections    []Section            `json:"sections" yaml:"sections"`
	Chart       *metrics.ChartSeries `json:"chart,omitempty" yaml:"chart,omitempty"`
	Remediation *model.Analysis      `json:"remediation,omitempty" yaml:"remediation,omitempty"`
}

// NoAnalysis is shown when the case has no analysis text yet
const NoAnalysis = "No analysis available yet."

// Renderer builds reports from cases
type Renderer struct {
	registry *Registry
}

func NewRenderer(registry *Registry) *Renderer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Renderer{registry: registry}
}

// Render produces one section per test, in payload order. It never fails:
// a capture that cannot be tabulated is shown raw.
func (r *Renderer) Render(c *model.Case) *Report {
	rep := &Report{
		CaseID:      c.ID,
		Description: c.Description,
		Platform:    c.Platform,
		Analysis:    c.Analysis,
		Sections:    []Section{},
	}
	if rep.Analysis == "" {
		rep.Analysis = NoAnalysis
	}

	for _, test := range c.AnalysisData.Tests() {
		lines, _ := c.AnalysisData.Get(test)
		rep.Sections = append(rep.Sections, r.renderSection(test, lines, c.Suggestions))
	}

	if cpuLines, ok := c.AnalysisData.Get(metrics.TestCPUUsage); ok {
		if series, ok := metrics.BuildCPUSeries(cpuLines, c.SampleTimestamps()); ok {
			rep.Chart = series
		}
	}

	return rep
}

func (r *Renderer) renderSection(test string, lines []string, suggestions map[string][]string) Section {
	section := Section{
		Test:  test,
		Title: Title(test),
	}

	if table, ok := r.registry.Lookup(test)(lines); ok {
		section.Table = table
	} else {
		raw := make([]string, len(lines))
		copy(raw, lines)
		section.Raw = &RawDump{Lines: raw}
	}

	if set, ok := analyzer.ResolveSuggestion(test, suggestions); ok {
		section.Suggestion = set
	} else {
		section.NoIssues = true
	}

	return section
}

// Title turns a test name into a heading, e.g. cpu_usage -> CPU USAGE
func Title(test string) string {
	return strings.ToUpper(strings.ReplaceAll(test, "_", " "))
}
