package polyglot

import (
	"context"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Total calls, including the first
	BaseDelay   time.Duration // Delay before retry n is BaseDelay * n
}

// DefaultRetryConfig returns the stock retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// RetryConfigFrom derives the retry behavior from a Config.
func RetryConfigFrom(cfg Config) RetryConfig {
	return RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryDelay,
	}
}

// Sleeper pauses between attempts. Tests substitute a fake.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// RealSleeper waits on the wall clock and returns early on cancellation.
type RealSleeper struct{}

// Sleep blocks for d or until ctx is done.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds or cfg.MaxAttempts calls have been
// made, sleeping BaseDelay*attempt between calls. Every error is retried.
// It returns the number of calls made alongside the result.
//
// A cancelled context stops further attempts; the last backend error is
// returned if there was one, otherwise the context error.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, sleeper Sleeper, fn RetryFunc[T]) (T, int, error) {
	var zero T
	var lastErr error

	if sleeper == nil {
		sleeper = RealSleeper{}
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return zero, attempts, lastErr
		}

		attempts++
		result, err := fn()
		if err == nil {
			return result, attempts, nil
		}
		lastErr = err

		// No sleep after the last attempt
		if attempt < maxAttempts {
			if err := sleeper.Sleep(ctx, cfg.BaseDelay*time.Duration(attempt)); err != nil {
				return zero, attempts, lastErr
			}
		}
	}

	return zero, attempts, lastErr
}
