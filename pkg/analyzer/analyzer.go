package analyzer

import (
	"context"
	"fmt"

	"github.com/helmcode/casediag/pkg/llm"
	"github.com/helmcode/casediag/pkg/model"
	"github.com/helmcode/casediag/pkg/parser"
	"github.com/helmcode/casediag/pkg/prompts"
)

// Analyzer asks an LLM for remediation on top of the rule-based suggestions
type Analyzer struct {
	llm llm.LLM
}

func NewWithLLM(l llm.LLM) *Analyzer {
	return &Analyzer{llm: l}
}

// NewFromEnv builds an Analyzer from the LLM environment settings
func NewFromEnv(provider, model string) (*Analyzer, error) {
	l, err := llm.CreateFromEnv(provider, model)
	if err != nil {
		return nil, err
	}
	return &Analyzer{llm: l}, nil
}

// LLM returns the backend used by the analyzer
func (a *Analyzer) LLM() llm.LLM {
	return a.llm
}

// Remediate sends the case captures and existing suggestions to the LLM
func (a *Analyzer) Remediate(ctx context.Context, c *model.Case) (*model.Analysis, error) {
	prompt, err := prompts.BuildRemediationPrompt(c)
	if err != nil {
		return nil, err
	}

	rawResp, err := a.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("LLM chat: %w", err)
	}

	return parser.ParseRemediationResponse(rawResp, c.ID)
}
