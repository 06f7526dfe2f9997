package polyglot

import (
	"context"
	"sync"
	"time"
)

// RateLimiter throttles backend calls with a token bucket.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate, default 60
	BurstSize         int // Bucket capacity, default RequestsPerMinute
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}

	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: rpm / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, ok := r.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire takes a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	_, ok := r.reserve()
	return ok
}

// reserve takes a token, or reports how long until the next one.
func (r *RateLimiter) reserve() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return 0, true
	}

	missing := 1 - r.tokens
	return time.Duration(missing / r.refillRate * float64(time.Second)), false
}

// refill must be called with the lock held.
func (r *RateLimiter) refill() {
	now := r.now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.lastRefill = now

	r.tokens += elapsed * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedBackend wraps a Backend with a RateLimiter.
type RateLimitedBackend struct {
	backend Backend
	limiter *RateLimiter
}

// NewRateLimitedBackend creates a rate-limited backend.
func NewRateLimitedBackend(backend Backend, cfg RateLimitConfig) *RateLimitedBackend {
	return &RateLimitedBackend{
		backend: backend,
		limiter: NewRateLimiter(cfg),
	}
}

// Translate waits for a token, then calls the wrapped backend.
func (b *RateLimitedBackend) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", &BackendError{
			Service: b.backend.Name(),
			Message: "rate limit wait cancelled",
			Cause:   err,
		}
	}
	return b.backend.Translate(ctx, text, targetLang, sourceLang)
}

// Name returns the wrapped backend's name.
func (b *RateLimitedBackend) Name() string {
	return b.backend.Name()
}

// Limiter returns the underlying rate limiter for inspection.
func (b *RateLimitedBackend) Limiter() *RateLimiter {
	return b.limiter
}
