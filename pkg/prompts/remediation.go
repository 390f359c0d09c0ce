package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/helmcode/casediag/pkg/model"
)

// BuildRemediationPrompt asks for a root cause and remediation steps for the
// captures of a case, given the suggestions the rule checks already produced.
func BuildRemediationPrompt(c *model.Case) (string, error) {
	captures, err := json.MarshalIndent(c.AnalysisData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis data: %w", err)
	}

	existing := "none"
	if len(c.Suggestions) > 0 {
		raw, err := json.MarshalIndent(c.Suggestions, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal suggestions: %w", err)
		}
		existing = string(raw)
	}

	platform := c.Platform
	if platform == "" {
		platform = "linux"
	}

	return fmt.Sprintf(`You are a systems administrator reviewing diagnostic captures from a %s host.

Case: %s

Diagnostic captures (test name -> raw command output lines):
%s

Suggestions already produced by automated checks:
%s

Please analyze these captures and provide:
1. The most likely root cause of any problem
2. Specific issues found, citing the captured values
3. Actionable remediation steps, most important first
4. If possible, a single shell command for an immediate fix

Respond in JSON format with this structure:
{
  "root_cause": "Brief explanation of the root cause",
  "severity": "low|medium|high|critical",
  "issues": [
    {
      "component": "test name",
      "severity": "low|medium|high|critical",
      "description": "what's wrong",
      "evidence": "the captured line or value"
    }
  ],
  "suggestions": [
    {
      "priority": "high|medium|low",
      "action": "what to do",
      "command": "shell command if applicable",
      "explanation": "why this helps"
    }
  ],
  "quick_fix": "single shell command for immediate fix if possible",
  "full_analysis": "detailed explanation of the findings"
}

If the captures look healthy, say so and keep the issue list empty.`, platform, c.Description, string(captures), existing), nil
}
