package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/tidwall/gjson"
)

// maxResponseSize caps how much of a LibreTranslate response is read.
const maxResponseSize = 4 << 20

// LibreTranslateProvider translates through a LibreTranslate server.
type LibreTranslateProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// LibreTranslateConfig holds configuration for the LibreTranslate provider.
type LibreTranslateConfig struct {
	URL     string // Server base URL, e.g. "http://localhost:5000"
	APIKey  string // Optional
	Timeout time.Duration
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// NewLibreTranslateProvider creates a LibreTranslate provider.
func NewLibreTranslateProvider(cfg LibreTranslateConfig) (*LibreTranslateProvider, error) {
	if cfg.URL == "" {
		return nil, &polyglot.BackendError{Service: ServiceLibreTranslate, Message: "server URL is required"}
	}
	return &LibreTranslateProvider{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/translate",
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeoutOrDefault(cfg.Timeout)},
	}, nil
}

// Name returns the service name.
func (p *LibreTranslateProvider) Name() string {
	return ServiceLibreTranslate
}

// Translate translates one text.
func (p *LibreTranslateProvider) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	source := polyglot.AutoLang
	if sourceLang != "" && sourceLang != polyglot.AutoLang {
		source = polyglot.BaseLang(polyglot.NormalizeLang(sourceLang))
	}

	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: source,
		Target: polyglot.BaseLang(polyglot.NormalizeLang(targetLang)),
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", p.fail("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", p.fail("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", polyglot.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", p.fail("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", p.fail("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", p.fail(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, msg), nil)
	}

	translated := gjson.GetBytes(raw, "translatedText")
	if !translated.Exists() {
		return "", p.fail("response has no translatedText", nil)
	}
	return translated.String(), nil
}

func (p *LibreTranslateProvider) fail(msg string, cause error) error {
	return &polyglot.BackendError{Service: ServiceLibreTranslate, Message: msg, Cause: cause}
}

var _ Backend = (*LibreTranslateProvider)(nil)
