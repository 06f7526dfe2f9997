package polyglot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the immutable configuration consumed by the orchestrator and the
// pipeline. Build it once and pass it by value.
type Config struct {
	SourceLang  string   // Language of the input documents
	TargetLangs []string // Ordered output languages, may include SourceLang

	MaxRetries int           // Total backend calls per fragment
	RetryDelay time.Duration // Base delay, multiplied by the attempt number

	CacheEnabled       bool
	PreserveFormatting bool

	Workers             int // Documents processed concurrently
	FragmentConcurrency int // Fragments translated concurrently per language, 1 = sequential

	OutputDir           string // Empty writes next to the input
	MaxFileSize         int64  // Bytes
	SupportedExtensions []string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		SourceLang:          "en",
		TargetLangs:         []string{"sk", "en", "hu", "de", "pl"},
		MaxRetries:          3,
		RetryDelay:          1 * time.Second,
		CacheEnabled:        true,
		PreserveFormatting:  true,
		Workers:             4,
		FragmentConcurrency: 1,
		MaxFileSize:         10 * 1024 * 1024,
		SupportedExtensions: []string{".txt", ".md", ".markdown", ".html", ".htm", ".json"},
	}
}

// Validate reports every problem with the configuration joined into one error.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SourceLang) == "" {
		errs = append(errs, errors.New("source language is required"))
	}
	if len(c.TargetLangs) == 0 {
		errs = append(errs, errors.New("at least one target language is required"))
	}
	for i, lang := range c.TargetLangs {
		if strings.TrimSpace(lang) == "" {
			errs = append(errs, fmt.Errorf("target language %d is empty", i))
		}
	}
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry delay must not be negative, got %s", c.RetryDelay))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.FragmentConcurrency < 1 {
		errs = append(errs, fmt.Errorf("fragment concurrency must be at least 1, got %d", c.FragmentConcurrency))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize))
	}
	return errors.Join(errs...)
}

// IsSourceLang reports whether lang names the configured source language.
func (c Config) IsSourceLang(lang string) bool {
	return NormalizeLang(lang) == NormalizeLang(c.SourceLang)
}

// Supports reports whether ext (with leading dot, any case) is an accepted input extension.
func (c Config) Supports(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range c.SupportedExtensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
