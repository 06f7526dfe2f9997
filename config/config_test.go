package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/polyglot"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "polyglot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	core := polyglot.DefaultConfig()
	if s.Core.SourceLang != core.SourceLang {
		t.Errorf("SourceLang = %s, want %s", s.Core.SourceLang, core.SourceLang)
	}
	if strings.Join(s.Core.TargetLangs, ",") != "sk,en,hu,de,pl" {
		t.Errorf("unexpected target languages %v", s.Core.TargetLangs)
	}
	if s.Core.MaxRetries != 3 || s.Core.RetryDelay != time.Second || s.Core.Workers != 4 {
		t.Errorf("unexpected core defaults %+v", s.Core)
	}
	if s.Core.MaxFileSize != 10*1024*1024 {
		t.Errorf("MaxFileSize = %d", s.Core.MaxFileSize)
	}
	if s.Backend.Service != "openai" || s.Backend.Timeout != 30*time.Second {
		t.Errorf("unexpected backend defaults %+v", s.Backend)
	}
	if s.Cache.Backend != CacheFile || s.Cache.Path != "cache/translations.json" {
		t.Errorf("unexpected cache defaults %+v", s.Cache)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", s.LogLevel)
	}
	if s.ContiguousRebuild {
		t.Error("ContiguousRebuild should default to false")
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
source_language: de
target_languages: [en, fr]
translation:
  service: libretranslate
  endpoint: http://localhost:5000
  retry_delay: 1.5
  timeout: 10s
  rate_limit: 30
  circuit_breaker: true
processing:
  workers: 8
  fragment_concurrency: 2
  output_dir: out
  contiguous_rebuild: true
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
  ttl: 24h
log:
  level: debug
  environment: local
metrics_addr: ":9090"
`)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Core.SourceLang != "de" || strings.Join(s.Core.TargetLangs, ",") != "en,fr" {
		t.Errorf("unexpected languages %+v", s.Core)
	}
	if s.Core.RetryDelay != 1500*time.Millisecond {
		t.Errorf("RetryDelay = %s, want 1.5s", s.Core.RetryDelay)
	}
	if s.Core.Workers != 8 || s.Core.FragmentConcurrency != 2 || s.Core.OutputDir != "out" {
		t.Errorf("unexpected processing settings %+v", s.Core)
	}
	want := BackendSettings{
		Service:        "libretranslate",
		Endpoint:       "http://localhost:5000",
		Timeout:        10 * time.Second,
		RateLimit:      30,
		CircuitBreaker: true,
	}
	if s.Backend != want {
		t.Errorf("Backend = %+v, want %+v", s.Backend, want)
	}
	if s.Cache.Backend != CacheRedis || s.Cache.TTL != 24*time.Hour {
		t.Errorf("unexpected cache settings %+v", s.Cache)
	}
	if !s.ContiguousRebuild {
		t.Error("processing.contiguous_rebuild should be read")
	}
	if s.Environment != "local" || s.MetricsAddr != ":9090" {
		t.Errorf("unexpected runtime settings %+v", s)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "translation:\n  service: gemini\n")

	t.Setenv("POLYGLOT_TRANSLATION_SERVICE", "mock")
	t.Setenv("POLYGLOT_TARGET_LANGUAGES", "sk, cs")
	t.Setenv("TRANSLATION_API_KEY", "secret")
	t.Setenv("POLYGLOT_PROCESSING_WORKERS", "2")
	t.Setenv("TRANSLATION_CACHE", "false")
	t.Setenv("POLYGLOT_PROCESSING_CONTIGUOUS_REBUILD", "true")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Backend.Service != "mock" {
		t.Errorf("Service = %s, want mock", s.Backend.Service)
	}
	if strings.Join(s.Core.TargetLangs, ",") != "sk,cs" {
		t.Errorf("TargetLangs = %v", s.Core.TargetLangs)
	}
	if s.Backend.APIKey != "secret" {
		t.Errorf("legacy TRANSLATION_API_KEY should set the API key")
	}
	if s.Core.Workers != 2 {
		t.Errorf("Workers = %d, want 2", s.Core.Workers)
	}
	if s.Core.CacheEnabled {
		t.Error("TRANSLATION_CACHE=false should disable the cache")
	}
	if !s.ContiguousRebuild {
		t.Error("POLYGLOT_PROCESSING_CONTIGUOUS_REBUILD should enable contiguous rebuild")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no targets", "target_languages: []\n", "target language"},
		{"bad cache backend", "cache:\n  backend: sqlite\n", "unknown cache backend"},
		{"redis without url", "cache:\n  backend: redis\n", "redis_url"},
		{"bad log level", "log:\n  level: loud\n", "log level"},
		{"bad duration", "translation:\n  retry_delay: soon\n", "retry_delay"},
		{"zero workers", "processing:\n  workers: 0\n", "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing config file")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("POLYGLOT_SOURCE_LANGUAGE=hu\nPOLYGLOT_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Variables already set win over the file.
	t.Setenv("POLYGLOT_LOG_LEVEL", "error")
	t.Setenv("POLYGLOT_SOURCE_LANGUAGE", "")
	os.Unsetenv("POLYGLOT_SOURCE_LANGUAGE")

	found, err := LoadEnvFile(envPath)
	if err != nil || !found {
		t.Fatalf("LoadEnvFile = %v, %v", found, err)
	}

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Core.SourceLang != "hu" {
		t.Errorf("SourceLang = %s, want hu from .env", s.Core.SourceLang)
	}
	if s.LogLevel != "error" {
		t.Errorf("LogLevel = %s, existing variable should win", s.LogLevel)
	}

	found, err = LoadEnvFile(filepath.Join(dir, "missing.env"))
	if err != nil || found {
		t.Errorf("missing .env should be skipped, got %v, %v", found, err)
	}
}
