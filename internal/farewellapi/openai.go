package farewellapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIBackend implements Backend against an OpenAI-compatible API. The
// instructions become the system message and the prompt the user message.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a backend. baseURL may be empty for the public API.
func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("farewellapi: openai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Generate requests one chat completion.
func (o *OpenAIBackend) Generate(ctx context.Context, p Payload) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: p.Prompt},
		},
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &StatusError{Op: "generate", Code: apiErr.HTTPStatusCode}
		}
		return "", fmt.Errorf("farewellapi: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrUnsuccessful
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrUnsuccessful
	}
	return text, nil
}

// Ping lists models; any successful answer counts as healthy.
func (o *OpenAIBackend) Ping(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return fmt.Errorf("farewellapi: openai ping: %w", err)
	}
	return nil
}
