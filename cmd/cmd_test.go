package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/casediag/pkg/analyzer"
	"github.com/helmcode/casediag/pkg/report"
)

func TestParseCaseID(t *testing.T) {
	id, err := parseCaseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	id, err = parseCaseID("#7")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseCaseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadResultsFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"cpu_usage": ["Cpu(s): 10.0 us, 5.0 sy, 0.0 ni, 80.0 id, 5.0 wa"],
		"unknown_test": ["foo", "bar"]
	}`), 0o600))

	payload, err := loadResultsFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu_usage", "unknown_test"}, payload.Tests())

	yamlPath := filepath.Join(dir, "results.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("load_average:\n  - 0.52 0.58 0.59 1/389 12345\n"), 0o600))
	payload, err = loadResultsFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"load_average"}, payload.Tests())

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`["not", "an", "object"]`), 0o600))
	_, err = loadResultsFile(badPath)
	assert.Error(t, err)

	_, err = loadResultsFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLocalCaseRendersWithRuleSuggestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"swap_usage": ["Swap:          2047          12        2035"],
		"unknown_test": ["foo", "bar"]
	}`), 0o600))

	payload, err := loadResultsFile(path)
	require.NoError(t, err)

	c := localCase(payload, "results.json")
	assert.Equal(t, analyzer.AnalysisCompleted, c.Analysis)

	rep := report.NewRenderer(nil).Render(c)
	require.Len(t, rep.Sections, 2)
	require.NotNil(t, rep.Sections[0].Suggestion)
	assert.Equal(t, "Swap Usage: This test checks if the system is using swap memory.", rep.Sections[0].Suggestion.Summary)
	assert.True(t, rep.Sections[1].NoIssues)
	assert.Equal(t, "foo\nbar", rep.Sections[1].Raw.Text())
}
