// Package provider contains the translation backends and backend decorators.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/rs/zerolog"
)

// Service names accepted by New.
const (
	ServiceOpenAI         = "openai"
	ServiceGemini         = "gemini"
	ServiceLibreTranslate = "libretranslate"
	ServiceMock           = "mock"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// Backend is an alias to the root interface for convenience.
type Backend = polyglot.Backend

// Config selects and configures a backend.
type Config struct {
	Service  string        // openai, gemini, libretranslate or mock
	APIKey   string        // Credential for the service
	Endpoint string        // Custom base URL (optional for openai and gemini)
	Model    string        // Model name for LLM backends
	Timeout  time.Duration // Per-request timeout, default DefaultTimeout
}

// Option configures providers built by New.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used by providers and decorators.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the backend named by cfg.Service. Unknown services fall back to
// OpenAI with a warning.
func New(ctx context.Context, cfg Config, opts ...Option) (Backend, error) {
	o := buildOptions(opts)

	service := strings.ToLower(strings.TrimSpace(cfg.Service))
	switch service {
	case ServiceOpenAI, "":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.Endpoint,
			Timeout: cfg.Timeout,
		})
	case ServiceGemini:
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.Endpoint,
			Timeout: cfg.Timeout,
		})
	case ServiceLibreTranslate:
		return NewLibreTranslateProvider(LibreTranslateConfig{
			URL:     cfg.Endpoint,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
	case ServiceMock:
		return NewMockProvider(), nil
	default:
		o.logger.Warn().Str("service", cfg.Service).Msg("unknown translation service, falling back to openai")
		cfg.Service = ServiceOpenAI
		return New(ctx, cfg, opts...)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// buildPrompt is shared by the LLM backends.
func buildPrompt(text, targetLang, sourceLang string) string {
	sourceInfo := ""
	if sourceLang != "" && sourceLang != polyglot.AutoLang {
		sourceInfo = " from " + polyglot.GetLanguageName(sourceLang)
	}

	return fmt.Sprintf(`Translate the following text%s to %s.
Preserve all formatting, HTML tags, placeholders and special characters.
Provide only the translation without any additional explanation.

Text to translate:
%s`, sourceInfo, polyglot.GetLanguageName(targetLang), text)
}

const systemPrompt = "You are a professional translator."
