package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrMockFailure is returned by MockProvider while failures are injected.
var ErrMockFailure = errors.New("mock backend failure")

// MockProvider is a deterministic in-process backend for tests and dry runs.
// Known texts use Translations; anything else is returned as "[lang] text".
type MockProvider struct {
	mu           sync.Mutex
	translations map[string]string
	failures     int // remaining failures, -1 fails forever
	calls        int
}

// NewMockProvider creates a mock provider with a few default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		translations: map[string]string{
			"Hello":       "Ahoj",
			"World":       "Svet",
			"Hello World": "Ahoj svet",
		},
	}
}

// Name returns the service name.
func (m *MockProvider) Name() string {
	return ServiceMock
}

// SetTranslation registers a fixed translation for text.
func (m *MockProvider) SetTranslation(text, translation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[text] = translation
}

// FailNext makes the next n calls fail. A negative n fails every call.
func (m *MockProvider) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 0 {
		n = -1
	}
	m.failures = n
}

// Calls returns the number of Translate calls.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.failures != 0 {
		if m.failures > 0 {
			m.failures--
		}
		return "", ErrMockFailure
	}

	if translation, ok := m.translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("[%s] %s", targetLang, text), nil
}

var _ Backend = (*MockProvider)(nil)
