package llm

import (
	"fmt"
	"os"
	"strings"
)

// Provider represents the LLM provider type
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// AvailableProviders returns the supported LLM providers
func AvailableProviders() []Provider {
	return []Provider{ProviderClaude, ProviderOpenAI}
}

// CreateLLM creates an LLM for a provider. An empty model selects the
// provider default.
func CreateLLM(provider Provider, apiKey, model string) (LLM, error) {
	switch provider {
	case ProviderClaude:
		if apiKey == "" {
			return nil, fmt.Errorf("Claude API key is required")
		}
		if model != "" {
			return NewClaudeWithModel(apiKey, model), nil
		}
		return NewClaude(apiKey), nil

	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		if model != "" {
			return NewOpenAIWithModel(apiKey, model), nil
		}
		return NewOpenAI(apiKey), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: claude, openai)", provider)
	}
}

// CreateFromEnv creates an LLM from environment variables. The overrides win
// over LLM_PROVIDER and CLAUDE_MODEL / OPENAI_MODEL; Claude is the default
// provider.
func CreateFromEnv(providerOverride, modelOverride string) (LLM, error) {
	provider := strings.ToLower(providerOverride)
	if provider == "" {
		provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		model := modelOverride
		if model == "" {
			model = os.Getenv("OPENAI_MODEL")
		}
		return CreateLLM(ProviderOpenAI, apiKey, model)

	case "claude", "":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		model := modelOverride
		if model == "" {
			model = os.Getenv("CLAUDE_MODEL")
		}
		return CreateLLM(ProviderClaude, apiKey, model)

	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s (supported: claude, openai)", provider)
	}
}
