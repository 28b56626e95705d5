package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// openAIChat talks to any OpenAI-compatible chat completions endpoint.
type openAIChat struct {
	client openai.Client
	model  string
	label  string // provider name used in errors
}

// Chat sends messages to the LLM and returns the response.
func (c *openAIChat) Chat(ctx context.Context, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			params = append(params, openai.SystemMessage(msg.Content))
		case "assistant":
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			params = append(params, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    params,
		Temperature: openai.Float(interpretTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.label, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s chat completion: %w", c.label, ErrNoChoices)
	}

	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *openAIChat) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}
