package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("CLAUDE_MODEL", "")
	t.Setenv("OPENAI_API_KEY", "")

	l, err := CreateFromEnv("", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, l.Provider())
	assert.Equal(t, claudeDefaultModel, l.Model())

	l, err = CreateFromEnv("claude", "claude-custom")
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", l.Model())

	_, err = CreateFromEnv("openai", "")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-oai")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	l, err = CreateFromEnv("OpenAI", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, l.Provider())
	assert.Equal(t, "gpt-test", l.Model())

	_, err = CreateFromEnv("mistral", "")
	assert.Error(t, err)
}

func TestClaudeChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])
		_, _ = w.Write([]byte(`{"content":[{"text":"hello"}]}`))
	}))
	defer server.Close()

	out, err := NewClaudeWithModel("sk-ant", "claude-test").WithEndpoint(server.URL).Chat(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestOpenAIChatError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	_, err := NewOpenAI("sk-oai").WithEndpoint(server.URL).Chat(context.Background(), "hi")
	assert.ErrorContains(t, err, "status 429")
}
