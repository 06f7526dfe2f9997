package polyglot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Backend is the boundary to a translation service.
// Any error is treated as retryable.
type Backend interface {
	Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error)
	Name() string
}

// TranslationCache is the interface for translation caching.
// Keys are produced by CacheKey.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// TextTranslator translates one piece of text and never fails outright;
// failures are reported in the result.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, targetLang, sourceLang string) TranslationResult
}

// Orchestrator wraps a Backend with caching, formatting preservation and
// bounded retry.
type Orchestrator struct {
	backend   Backend
	cache     TranslationCache
	formatter *FormattingPreserver
	sleeper   Sleeper
	retry     RetryConfig
	config    Config
	logger    zerolog.Logger
}

// OrchestratorOption is a functional option for configuring the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithConfig applies retry, cache and formatting settings from cfg.
func WithConfig(cfg Config) OrchestratorOption {
	return func(o *Orchestrator) {
		o.config = cfg
		o.retry = RetryConfigFrom(cfg)
	}
}

// WithCache sets the translation cache. It is only consulted when the
// configuration enables caching.
func WithCache(cache TranslationCache) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cache = cache
	}
}

// WithSleeper replaces the wall-clock sleeper used between retries.
func WithSleeper(s Sleeper) OrchestratorOption {
	return func(o *Orchestrator) {
		o.sleeper = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an Orchestrator around backend.
func NewOrchestrator(backend Backend, opts ...OrchestratorOption) *Orchestrator {
	cfg := DefaultConfig()
	o := &Orchestrator{
		backend:   backend,
		formatter: NewFormattingPreserver(),
		sleeper:   RealSleeper{},
		retry:     RetryConfigFrom(cfg),
		config:    cfg,
		logger:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// TranslateText translates text into targetLang. An empty sourceLang means
// the backend should detect it.
func (o *Orchestrator) TranslateText(ctx context.Context, text, targetLang, sourceLang string) TranslationResult {
	start := time.Now()
	if sourceLang == "" {
		sourceLang = AutoLang
	}

	result := TranslationResult{
		OriginalText: text,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		Service:      o.backend.Name(),
	}

	if strings.TrimSpace(text) == "" {
		result.TranslatedText = text
		result.Service = "none"
		result.Confidence = ConfidenceIdentity
		result.Duration = time.Since(start)
		return result
	}

	key := CacheKey(text, sourceLang, targetLang)
	if o.cacheEnabled() {
		if cached, ok := o.cache.Get(key); ok {
			result.TranslatedText = cached
			result.Cached = true
			result.Confidence = ConfidenceCached
			result.Duration = time.Since(start)
			return result
		}
	}

	clean := text
	var placeholders Placeholders
	if o.config.PreserveFormatting {
		clean, placeholders = o.formatter.Extract(text)
	}

	translated, attempts, err := WithRetry(ctx, o.retry, o.sleeper, func() (string, error) {
		out, err := o.backend.Translate(ctx, clean, targetLang, sourceLang)
		if err != nil {
			o.logger.Debug().Err(err).
				Str("service", o.backend.Name()).
				Str("target", targetLang).
				Msg("backend call failed")
		}
		return out, err
	})
	result.Attempts = attempts
	result.Duration = time.Since(start)

	if err != nil {
		result.Err = &TranslationError{
			Message:  "translation failed",
			Attempts: attempts,
			Cause:    err,
		}
		return result
	}

	if o.config.PreserveFormatting {
		translated = o.formatter.Restore(translated, placeholders)
	}

	if o.cacheEnabled() {
		if err := o.cache.Set(key, translated); err != nil {
			o.logger.Warn().Err(err).Str("target", targetLang).Msg("cache write failed")
		}
	}

	result.TranslatedText = translated
	result.Confidence = ConfidenceBackend
	return result
}

func (o *Orchestrator) cacheEnabled() bool {
	return o.cache != nil && o.config.CacheEnabled
}

// Backend returns the wrapped backend.
func (o *Orchestrator) Backend() Backend {
	return o.backend
}

// Config returns the configuration in effect.
func (o *Orchestrator) Config() Config {
	return o.config
}
