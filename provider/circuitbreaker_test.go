package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/sony/gobreaker"
)

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	mock := NewMockProvider()
	mock.FailNext(-1)

	cb := NewCircuitBreaker(mock, CircuitBreakerConfig{MaxFailures: 3, OpenTimeout: time.Hour})

	for i := 0; i < 3; i++ {
		_, err := cb.Translate(context.Background(), "Hello", "sk", "en")
		if !errors.Is(err, ErrMockFailure) {
			t.Fatalf("call %d: expected backend failure, got %v", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open breaker, got %s", cb.State())
	}

	_, err := cb.Translate(context.Background(), "Hello", "sk", "en")
	var backendErr *polyglot.BackendError
	if !errors.As(err, &backendErr) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Expected open-state BackendError, got %v", err)
	}
	if mock.Calls() != 3 {
		t.Errorf("open breaker should not call the backend, calls=%d", mock.Calls())
	}
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	mock := NewMockProvider()
	cb := NewCircuitBreaker(mock, CircuitBreakerConfig{})

	out, err := cb.Translate(context.Background(), "Hello", "sk", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Ahoj" {
		t.Errorf("Expected 'Ahoj', got %q", out)
	}
	if cb.Name() != ServiceMock {
		t.Errorf("Expected wrapped name, got %s", cb.Name())
	}
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	cb := NewCircuitBreaker(NewMockProvider(), CircuitBreakerConfig{MaxFailures: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		cb.Translate(ctx, "Hello", "sk", "en")
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("cancelled calls should not open the breaker, state=%s", cb.State())
	}
}
