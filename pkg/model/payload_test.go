package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnalysisPayloadJSONKeepsOrder(t *testing.T) {
	data := []byte(`{
		"zeta": ["z"],
		"cpu_usage": ["Cpu(s): 10.0 us, 5.0 sy, 0.0 ni, 80.0 id, 5.0 wa"],
		"alpha": ["a1", "a2"],
		"memory_usage": []
	}`)

	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, []string{"zeta", "cpu_usage", "alpha", "memory_usage"}, payload.Tests())
	lines, ok := payload.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"a1", "a2"}, lines)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
	assert.Regexp(t, `^\{"zeta".*"cpu_usage".*"alpha".*"memory_usage"`, string(out))
}

func TestAnalysisPayloadJSONIrregularValues(t *testing.T) {
	data := []byte(`{"vpn_status": null, "odd": "text", "mixed": ["a", 3, {"k": 1}]}`)

	var payload AnalysisPayload
	require.NoError(t, json.Unmarshal(data, &payload))

	lines, ok := payload.Get("vpn_status")
	require.True(t, ok)
	assert.Empty(t, lines)

	lines, _ = payload.Get("odd")
	assert.Empty(t, lines)

	lines, _ = payload.Get("mixed")
	assert.Equal(t, []string{"a", "3", `{"k": 1}`}, lines)
}

func TestAnalysisPayloadJSONRejectsNonObject(t *testing.T) {
	var payload AnalysisPayload
	assert.Error(t, json.Unmarshal([]byte(`["cpu_usage"]`), &payload))
}

func TestAnalysisPayloadYAMLKeepsOrder(t *testing.T) {
	data := []byte("load_average:\n  - 0.52 0.58 0.59 1/389 12345\nunknown_test:\n  - foo\n  - bar\ncpu_usage: []\n")

	var payload AnalysisPayload
	require.NoError(t, yaml.Unmarshal(data, &payload))
	assert.Equal(t, []string{"load_average", "unknown_test", "cpu_usage"}, payload.Tests())

	out, err := yaml.Marshal(payload)
	require.NoError(t, err)

	var again AnalysisPayload
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, payload.Tests(), again.Tests())
	lines, _ := again.Get("unknown_test")
	assert.Equal(t, []string{"foo", "bar"}, lines)
}

func TestAnalysisPayloadSetKeepsPosition(t *testing.T) {
	payload := NewAnalysisPayload()
	payload.Set("a", []string{"1"})
	payload.Set("b", []string{"2"})
	payload.Set("a", []string{"3"})

	assert.Equal(t, []string{"a", "b"}, payload.Tests())
	lines, _ := payload.Get("a")
	assert.Equal(t, []string{"3"}, lines)
	assert.Equal(t, 2, payload.Len())
}

func TestCaseSampleTimestamps(t *testing.T) {
	var c Case
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 7,
		"analysis_data": {"cpu_usage": ["x"], "timestamps": ["t1", "t2"]}
	}`), &c))
	assert.Equal(t, []string{"t1", "t2"}, c.SampleTimestamps())

	c.Timestamps = []string{"top"}
	assert.Equal(t, []string{"top"}, c.SampleTimestamps())

	empty := Case{}
	assert.Nil(t, empty.SampleTimestamps())
}
