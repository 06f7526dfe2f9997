package provider

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider translates through the Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string        // default DefaultGeminiModel
	BaseURL string        // Custom endpoint (optional)
	Timeout time.Duration // Per-request timeout
}

// NewGeminiProvider creates a Gemini API client.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &polyglot.BackendError{Service: ServiceGemini, Message: "API key is required"}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, &polyglot.BackendError{Service: ServiceGemini, Message: "failed to create client", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiProvider{client: client, model: model, temperature: 0.1}, nil
}

// Name returns the service name.
func (p *GeminiProvider) Name() string {
	return ServiceGemini
}

// Translate translates one text.
func (p *GeminiProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	temperature := p.temperature
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(buildPrompt(text, targetLang, sourceLang)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       &temperature,
		},
	)
	if err != nil {
		return "", &polyglot.BackendError{Service: ServiceGemini, Message: "generate content failed", Cause: err}
	}

	translated := strings.TrimSpace(resp.Text())
	if translated == "" {
		return "", &polyglot.BackendError{Service: ServiceGemini, Message: "empty translation"}
	}
	return translated, nil
}

var _ Backend = (*GeminiProvider)(nil)
