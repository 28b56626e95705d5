package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient implements the Client interface using LM Studio's OpenAI-compatible API.
type LMStudioClient struct {
	openAIChat
	baseURL string
}

// NewLMStudioClient creates a new LM Studio client.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("lm studio: %w", ErrModelRequired)
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := "lm-studio"
	for _, key := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			apiKey = v
			break
		}
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &LMStudioClient{
		openAIChat: openAIChat{client: client, model: model, label: "lm studio"},
		baseURL:    baseURL,
	}, nil
}
