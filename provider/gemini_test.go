package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Translate(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Guten Morgen\n"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test",
		Model:   "gemini-test",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}

	out, err := p.Translate(context.Background(), "Good morning", "de", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Guten Morgen" {
		t.Errorf("Expected 'Guten Morgen', got %q", out)
	}
	if !strings.Contains(body, "Good morning") {
		t.Errorf("request body should carry the text, got %s", body)
	}
}

func TestGeminiProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}

	if _, err := p.Translate(context.Background(), "Hello", "de", "en"); err == nil {
		t.Error("Expected error from failing server")
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Error("Expected error without API key")
	}
}
