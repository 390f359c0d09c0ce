package model

// Case is a diagnostic investigation as returned by the Case Service
type Case struct {
	ID           int                 `json:"id" yaml:"id"`
	Description  string              `json:"description" yaml:"description"`
	Platform     string              `json:"platform" yaml:"platform"`
	Analysis     string              `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	AnalysisData *AnalysisPayload    `json:"analysis_data,omitempty" yaml:"analysis_data,omitempty"`
	Timestamps   []string            `json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
	Suggestions  map[string][]string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Username     string              `json:"username,omitempty" yaml:"username,omitempty"`
}

// SampleTimestamps returns the timestamps aligned to CPU samples. The top
// level field wins; captures that embed them in analysis_data are honored too.
func (c *Case) SampleTimestamps() []string {
	if len(c.Timestamps) > 0 {
		return c.Timestamps
	}
	if ts, ok := c.AnalysisData.Get(TimestampsKey); ok {
		return ts
	}
	return nil
}

// Comment is a note left on a case
type Comment struct {
	ID        int    `json:"id" yaml:"id"`
	User      string `json:"user" yaml:"user"`
	IsAdmin   bool   `json:"is_admin" yaml:"is_admin"`
	Comment   string `json:"comment" yaml:"comment"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Analysis is an AI remediation answer for a rendered report
type Analysis struct {
	Problem      string       `json:"problem" yaml:"problem"`
	RootCause    string       `json:"root_cause" yaml:"root_cause"`
	Severity     string       `json:"severity" yaml:"severity"`
	Issues       []Issue      `json:"issues" yaml:"issues"`
	Suggestions  []Suggestion `json:"suggestions" yaml:"suggestions"`
	QuickFix     string       `json:"quick_fix,omitempty" yaml:"quick_fix,omitempty"`
	FullAnalysis string       `json:"full_analysis" yaml:"full_analysis"`
}

type Issue struct {
	Component   string `json:"component" yaml:"component"`
	Severity    string `json:"severity" yaml:"severity"`
	Description string `json:"description" yaml:"description"`
	Evidence    string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

type Suggestion struct {
	Priority    string `json:"priority" yaml:"priority"`
	Action      string `json:"action" yaml:"action"`
	Command     string `json:"command,omitempty" yaml:"command,omitempty"`
	Explanation string `json:"explanation" yaml:"explanation"`
}
