package analyzer

// SuggestionSet is a remediation narrative for one test: a lead summary
// followed by ordered steps.
type SuggestionSet struct {
	Summary string   `json:"summary" yaml:"summary"`
	Steps   []string `json:"steps" yaml:"steps"`
}

// ResolveSuggestion looks up the precomputed suggestion lines for a test.
// The first line is the summary and the rest are the steps. It reports
// false when nothing was computed for the test, which callers show as
// "no issues found".
func ResolveSuggestion(test string, suggestions map[string][]string) (*SuggestionSet, bool) {
	lines := suggestions[test]
	if len(lines) == 0 {
		return nil, false
	}

	steps := make([]string, len(lines)-1)
	copy(steps, lines[1:])
	return &SuggestionSet{
		Summary: lines[0],
		Steps:   steps,
	}, true
}
