package llm

import "context"

// LLM is a chat-style completion backend
type LLM interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Provider() Provider
	Model() string
}
