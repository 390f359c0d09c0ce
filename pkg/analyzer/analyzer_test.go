package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/casediag/pkg/llm"
	"github.com/helmcode/casediag/pkg/model"
)

type stubLLM struct {
	answer string
	err    error
	prompt string
}

func (s *stubLLM) Chat(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

func (s *stubLLM) Provider() llm.Provider { return llm.ProviderClaude }
func (s *stubLLM) Model() string          { return "stub" }

func TestRemediate(t *testing.T) {
	stub := &stubLLM{answer: `{"root_cause":"memory pressure","severity":"high","issues":[],"suggestions":[]}`}
	payload := model.NewAnalysisPayload()
	payload.Set("memory_usage", []string{"Mem: 7821 7700 121 0 0 50"})

	analysis, err := NewWithLLM(stub).Remediate(context.Background(), &model.Case{ID: 9, AnalysisData: payload})
	require.NoError(t, err)
	assert.Equal(t, "memory pressure", analysis.RootCause)
	assert.Equal(t, "Case 9 diagnostics", analysis.Problem)
	assert.Contains(t, stub.prompt, "Mem: 7821 7700 121 0 0 50")
}

func TestRemediateChatError(t *testing.T) {
	stub := &stubLLM{err: errors.New("boom")}

	_, err := NewWithLLM(stub).Remediate(context.Background(), &model.Case{AnalysisData: model.NewAnalysisPayload()})
	assert.ErrorContains(t, err, "LLM chat: boom")
}
