package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider translates through an OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string        // OpenAI API key
	Model       string        // Model to use (default: DefaultOpenAIModel)
	Temperature float32       // Temperature for generation (default: 0.1)
	BaseURL     string        // Custom base URL (optional)
	Timeout     time.Duration // Per-request timeout
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &polyglot.BackendError{Service: ServiceOpenAI, Message: "API key is required"}
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}, nil
}

// Name returns the service name.
func (p *OpenAIProvider) Name() string {
	return ServiceOpenAI
}

// Translate translates one text.
func (p *OpenAIProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(text, targetLang, sourceLang)},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &polyglot.BackendError{
			Service: ServiceOpenAI,
			Message: describeOpenAIError(err),
			Cause:   err,
		}
	}

	if len(resp.Choices) == 0 {
		return "", &polyglot.BackendError{Service: ServiceOpenAI, Message: "no choices in response"}
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", &polyglot.BackendError{Service: ServiceOpenAI, Message: "empty translation"}
	}
	return translated, nil
}

func describeOpenAIError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "authentication failed"
		case http.StatusTooManyRequests:
			return "rate limit or quota exceeded"
		}
		if apiErr.HTTPStatusCode >= 500 {
			return "service unavailable"
		}
	}
	return "chat completion failed"
}

var _ Backend = (*OpenAIProvider)(nil)
