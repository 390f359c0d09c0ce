package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/helmcode/casediag/pkg/model"
)

var fencePattern = regexp.MustCompile("```[a-zA-Z]*\n|```")

// ParseRemediationResponse decodes an LLM answer about a case report. When
// the answer is not the requested JSON, the whole text is kept as a single
// suggestion so nothing the model said is lost.
func ParseRemediationResponse(raw string, caseID int) (*model.Analysis, error) {
	problem := fmt.Sprintf("Case %d diagnostics", caseID)
	cleaned := stripFences(raw)

	var analysis model.Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		analysis = model.Analysis{
			Problem:      problem,
			RootCause:    "Analysis completed (see full analysis for details)",
			Severity:     "medium",
			FullAnalysis: raw,
			Issues: []model.Issue{{
				Component:   "diagnostics",
				Severity:    "medium",
				Description: "See full analysis for detailed information",
			}},
			Suggestions: []model.Suggestion{{
				Priority:    "high",
				Action:      "Review the full analysis below",
				Explanation: raw,
			}},
		}
	}

	if analysis.Problem == "" {
		analysis.Problem = problem
	}
	return &analysis, nil
}

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
}
