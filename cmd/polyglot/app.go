package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/cache"
	"github.com/ZaguanLabs/polyglot/config"
	"github.com/ZaguanLabs/polyglot/logging"
	"github.com/ZaguanLabs/polyglot/provider"
	"github.com/rs/zerolog"
)

// loadSettings reads .env, the config file and the environment.
func loadSettings(opts *globalOptions) (config.Settings, error) {
	if _, err := config.LoadEnvFile(opts.envFile); err != nil {
		return config.Settings{}, err
	}
	s, err := config.Load(opts.configPath)
	if err != nil {
		return config.Settings{}, err
	}
	if opts.logLevel != "" {
		s.LogLevel = opts.logLevel
	}
	return s, nil
}

func newLogger(s config.Settings, w io.Writer) (zerolog.Logger, error) {
	return logging.New(w, s.Environment, s.LogLevel)
}

// openCache returns the configured store, or nil when caching is disabled.
// A Redis store that cannot be reached is skipped with a warning.
func openCache(s config.Settings, logger zerolog.Logger) (polyglot.TranslationCache, func()) {
	noop := func() {}
	if !s.Core.CacheEnabled {
		return nil, noop
	}

	switch s.Cache.Backend {
	case config.CacheMemory:
		return cache.NewInMemoryCache(), noop
	case config.CacheRedis:
		c, err := cache.NewRedisCache(cache.RedisConfig{URL: s.Cache.RedisURL, TTL: s.Cache.TTL}, cache.WithLogger(logger))
		if err != nil {
			logger.Warn().Err(err).Msg("redis cache unavailable, continuing without cache")
			return nil, noop
		}
		return c, func() { _ = c.Close() }
	default:
		return cache.NewFileCache(s.Cache.Path, cache.WithLogger(logger)), noop
	}
}

// newBackend builds the backend with the configured decorators: circuit
// breaker inside, rate limiter outside.
func newBackend(ctx context.Context, s config.Settings, logger zerolog.Logger) (polyglot.Backend, error) {
	backend, err := provider.New(ctx, provider.Config{
		Service:  s.Backend.Service,
		APIKey:   s.Backend.APIKey,
		Endpoint: s.Backend.Endpoint,
		Model:    s.Backend.Model,
		Timeout:  s.Backend.Timeout,
	}, provider.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating %s backend: %w", s.Backend.Service, err)
	}

	if s.Backend.CircuitBreaker {
		backend = provider.NewCircuitBreaker(backend, provider.CircuitBreakerConfig{}, provider.WithLogger(logger))
	}
	if s.Backend.RateLimit > 0 {
		backend = polyglot.NewRateLimitedBackend(backend, polyglot.RateLimitConfig{RequestsPerMinute: s.Backend.RateLimit})
	}
	return backend, nil
}
