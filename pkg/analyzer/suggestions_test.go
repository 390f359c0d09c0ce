package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSuggestion(t *testing.T) {
	suggestions := map[string][]string{
		"cpu_usage":    {"High CPU detected", "Kill process X", "Add more cores"},
		"load_average": {"Load looks odd"},
		"memory_usage": {},
	}

	set, ok := ResolveSuggestion("cpu_usage", suggestions)
	require.True(t, ok)
	assert.Equal(t, "High CPU detected", set.Summary)
	assert.Equal(t, []string{"Kill process X", "Add more cores"}, set.Steps)

	set, ok = ResolveSuggestion("load_average", suggestions)
	require.True(t, ok)
	assert.Equal(t, "Load looks odd", set.Summary)
	assert.Empty(t, set.Steps)

	_, ok = ResolveSuggestion("memory_usage", suggestions)
	assert.False(t, ok, "empty list means no suggestion")

	_, ok = ResolveSuggestion("ping_test", suggestions)
	assert.False(t, ok, "absent entry means no suggestion")

	_, ok = ResolveSuggestion("cpu_usage", nil)
	assert.False(t, ok)
}

func TestResolveSuggestionDoesNotAlias(t *testing.T) {
	suggestions := map[string][]string{"cpu_usage": {"summary", "step"}}

	set, ok := ResolveSuggestion("cpu_usage", suggestions)
	require.True(t, ok)
	set.Steps[0] = "changed"
	assert.Equal(t, "step", suggestions["cpu_usage"][1])
}
