package llm

import (
	"errors"
	"testing"

	"github.com/javiermolinar/freetogether/internal/config"
)

func TestNewClient_LocalProviders(t *testing.T) {
	tests := []struct {
		provider string
		baseURL  string
		wantURL  string
	}{
		{"ollama", "", defaultOllamaBaseURL},
		{" Ollama ", "http://gpu-box:11434", "http://gpu-box:11434"},
		{"lmstudio", "", defaultLMStudioBaseURL},
		{"lm-studio", "http://localhost:9999/v1", "http://localhost:9999/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, err := NewClient(tt.provider, "llama3", tt.baseURL)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			var got string
			switch c := client.(type) {
			case *OllamaClient:
				got = c.baseURL
			case *LMStudioClient:
				got = c.baseURL
			default:
				t.Fatalf("unexpected client type %T", client)
			}
			if got != tt.wantURL {
				t.Errorf("baseURL = %q, want %q", got, tt.wantURL)
			}
			if !IsLocal(tt.provider) {
				t.Errorf("IsLocal(%q) = false", tt.provider)
			}
		})
	}
}

func TestNewClient_Errors(t *testing.T) {
	if _, err := NewClient("unknown", "model", ""); err == nil {
		t.Error("expected error for unsupported provider")
	}
	for _, provider := range []string{"ollama", "lmstudio"} {
		if _, err := NewClient(provider, " ", ""); !errors.Is(err, ErrModelRequired) {
			t.Errorf("%s without model: expected ErrModelRequired, got %v", provider, err)
		}
	}
}

func TestNewClientFromConfig(t *testing.T) {
	client, err := NewClientFromConfig(config.LLMConfig{Provider: "ollama", Model: "qwen2.5"})
	if err != nil {
		t.Fatalf("NewClientFromConfig: %v", err)
	}
	if c, ok := client.(*OllamaClient); !ok || c.model != "qwen2.5" {
		t.Errorf("client = %#v", client)
	}
	if IsLocal("copilot") || IsLocal("") {
		t.Error("copilot should not be local")
	}
}
