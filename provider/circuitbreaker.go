package provider

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig configures when the breaker opens and recovers.
type CircuitBreakerConfig struct {
	MaxFailures      uint32        // Consecutive failures that open the breaker, default 5
	OpenTimeout      time.Duration // Time spent open before probing again, default 30s
	HalfOpenRequests uint32        // Probe requests allowed while half-open, default 1
}

// CircuitBreaker stops calling a failing backend for a while. Calls made
// while the breaker is open fail fast with a BackendError.
type CircuitBreaker struct {
	backend Backend
	cb      *gobreaker.CircuitBreaker
}

// NewCircuitBreaker wraps backend with a circuit breaker.
func NewCircuitBreaker(backend Backend, cfg CircuitBreakerConfig, opts ...Option) *CircuitBreaker {
	o := buildOptions(opts)

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	halfOpen := cfg.HalfOpenRequests
	if halfOpen == 0 {
		halfOpen = 1
	}

	logger := o.logger.With().Str("backend", backend.Name()).Logger()

	return &CircuitBreaker{
		backend: backend,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        backend.Name(),
			MaxRequests: halfOpen,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			IsSuccessful: func(err error) bool {
				// A caller giving up says nothing about the backend.
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		}),
	}
}

// Name returns the wrapped backend's name.
func (c *CircuitBreaker) Name() string {
	return c.backend.Name()
}

// State returns the current breaker state.
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Translate calls the wrapped backend unless the breaker is open.
func (c *CircuitBreaker) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.backend.Translate(ctx, text, targetLang, sourceLang)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &polyglot.BackendError{Service: c.backend.Name(), Message: "circuit breaker open", Cause: err}
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

var _ Backend = (*CircuitBreaker)(nil)
