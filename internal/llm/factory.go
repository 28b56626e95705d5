package llm

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/freetogether/internal/config"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient creates an LLM client based on provider configuration.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio, "lm-studio":
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// NewClientFromConfig creates the client described by the [llm] section.
func NewClientFromConfig(cfg config.LLMConfig) (Client, error) {
	return NewClient(cfg.Provider, cfg.Model, cfg.BaseURL)
}

// IsLocal reports whether the provider runs a local model, which gets a
// shorter prompt.
func IsLocal(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOllama, ProviderLMStudio, "lm-studio":
		return true
	default:
		return false
	}
}
