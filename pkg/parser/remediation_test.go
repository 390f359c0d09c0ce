package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemediationResponseJSON(t *testing.T) {
	raw := "```json\n{\"root_cause\": \"swap thrashing\", \"severity\": \"high\", \"suggestions\": [{\"priority\": \"high\", \"action\": \"add RAM\", \"explanation\": \"swap is 90% used\"}]}\n```"

	analysis, err := ParseRemediationResponse(raw, 12)
	require.NoError(t, err)
	assert.Equal(t, "swap thrashing", analysis.RootCause)
	assert.Equal(t, "high", analysis.Severity)
	assert.Equal(t, "Case 12 diagnostics", analysis.Problem)
	require.Len(t, analysis.Suggestions, 1)
	assert.Equal(t, "add RAM", analysis.Suggestions[0].Action)
}

func TestParseRemediationResponseFallback(t *testing.T) {
	raw := "The box is fine, nothing to do."

	analysis, err := ParseRemediationResponse(raw, 3)
	require.NoError(t, err)
	assert.Equal(t, "medium", analysis.Severity)
	assert.Equal(t, raw, analysis.FullAnalysis)
	require.Len(t, analysis.Suggestions, 1)
	assert.Equal(t, raw, analysis.Suggestions[0].Explanation)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", stripFences("  plain  "))
}
