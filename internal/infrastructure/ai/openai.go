package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/terminalfellow/terminalfellow/internal/domain"
	"github.com/terminalfellow/terminalfellow/internal/ports"
)

type openAIBackend struct {
	client *openai.Client
}

// newOpenAIBackend builds a chat completion client bound to apiKey. The key
// lives only inside the client configuration.
func newOpenAIBackend(apiKey, baseURL string, httpClient *http.Client) ports.CompletionBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAIBackend{client: openai.NewClientWithConfig(cfg)}
}

func (b *openAIBackend) Name() string {
	return "openai"
}

func (b *openAIBackend) Complete(ctx context.Context, req ports.CompletionRequest) (ports.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       valueOrDefault(req.Model, domain.DefaultModel),
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return ports.CompletionResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ports.CompletionResponse{}, domain.ErrEmptyResponse
	}
	return ports.CompletionResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}, nil
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
