// Package config loads polyglot settings from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/ZaguanLabs/polyglot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override
// (POLYGLOT_TRANSLATION_SERVICE overrides translation.service).
const EnvPrefix = "POLYGLOT"

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Settings is everything the CLI needs to build a pipeline.
type Settings struct {
	Core    polyglot.Config
	Backend BackendSettings
	Cache   CacheSettings

	// ContiguousRebuild makes plain-text outputs stop at the first
	// paragraph without a translation.
	ContiguousRebuild bool

	LogLevel    string
	Environment string // "local" switches to human-readable logs
	MetricsAddr string // Empty disables the metrics endpoint
}

// BackendSettings selects and tunes the translation backend.
type BackendSettings struct {
	Service        string
	APIKey         string
	Endpoint       string
	Model          string
	Timeout        time.Duration
	RateLimit      int // Requests per minute, 0 disables limiting
	CircuitBreaker bool
}

// CacheSettings selects the translation cache store.
type CacheSettings struct {
	Backend  string // file, memory or redis
	Path     string
	RedisURL string
	TTL      time.Duration // Redis only
}

// envAliases keeps the variable names of older deployments working.
var envAliases = map[string][]string{
	"source_language":                 {"SOURCE_LANGUAGE"},
	"target_languages":                {"TRANSLATION_LANGUAGES"},
	"translation.service":             {"TRANSLATION_SERVICE"},
	"translation.api_key":             {"TRANSLATION_API_KEY", "OPENAI_API_KEY"},
	"translation.endpoint":            {"TRANSLATION_API_ENDPOINT"},
	"translation.max_retries":         {"TRANSLATION_MAX_RETRIES"},
	"translation.retry_delay":         {"TRANSLATION_RETRY_DELAY"},
	"translation.preserve_formatting": {"PRESERVE_FORMATTING"},
	"cache.enabled":                   {"TRANSLATION_CACHE"},
	"processing.workers":              {"PARALLEL_WORKERS"},
	"processing.max_file_size":        {"MAX_FILE_SIZE"},
	"processing.supported_extensions": {"SUPPORTED_EXTENSIONS"},
}

func setDefaults(v *viper.Viper) {
	core := polyglot.DefaultConfig()

	v.SetDefault("source_language", core.SourceLang)
	v.SetDefault("target_languages", core.TargetLangs)

	v.SetDefault("translation.service", "openai")
	v.SetDefault("translation.timeout", "30s")
	v.SetDefault("translation.max_retries", core.MaxRetries)
	v.SetDefault("translation.retry_delay", core.RetryDelay.String())
	v.SetDefault("translation.rate_limit", 0)
	v.SetDefault("translation.circuit_breaker", false)
	v.SetDefault("translation.preserve_formatting", core.PreserveFormatting)

	v.SetDefault("processing.workers", core.Workers)
	v.SetDefault("processing.fragment_concurrency", core.FragmentConcurrency)
	v.SetDefault("processing.max_file_size", core.MaxFileSize)
	v.SetDefault("processing.supported_extensions", core.SupportedExtensions)
	v.SetDefault("processing.output_dir", "")
	v.SetDefault("processing.contiguous_rebuild", false)

	v.SetDefault("cache.enabled", core.CacheEnabled)
	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.path", "cache/translations.json")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "0s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "production")
	v.SetDefault("metrics_addr", "")
}

// LoadEnvFile loads variables from a .env file without overriding the ones
// already set. A missing file is not an error; found reports whether it
// was read.
func LoadEnvFile(path string) (found bool, err error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// Load reads settings from the YAML file at path (optional) with
// environment overrides applied on top, and validates them.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Settings{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s, err := decode(v)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func decode(v *viper.Viper) (Settings, error) {
	var errs []error
	duration := func(key string) time.Duration {
		d, err := parseDuration(v.Get(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}

	s := Settings{
		Core: polyglot.Config{
			SourceLang:          strings.TrimSpace(v.GetString("source_language")),
			TargetLangs:         stringList(v.Get("target_languages")),
			MaxRetries:          v.GetInt("translation.max_retries"),
			RetryDelay:          duration("translation.retry_delay"),
			CacheEnabled:        v.GetBool("cache.enabled"),
			PreserveFormatting:  v.GetBool("translation.preserve_formatting"),
			Workers:             v.GetInt("processing.workers"),
			FragmentConcurrency: v.GetInt("processing.fragment_concurrency"),
			OutputDir:           v.GetString("processing.output_dir"),
			MaxFileSize:         v.GetInt64("processing.max_file_size"),
			SupportedExtensions: stringList(v.Get("processing.supported_extensions")),
		},
		Backend: BackendSettings{
			Service:        strings.ToLower(strings.TrimSpace(v.GetString("translation.service"))),
			APIKey:         v.GetString("translation.api_key"),
			Endpoint:       v.GetString("translation.endpoint"),
			Model:          v.GetString("translation.model"),
			Timeout:        duration("translation.timeout"),
			RateLimit:      v.GetInt("translation.rate_limit"),
			CircuitBreaker: v.GetBool("translation.circuit_breaker"),
		},
		Cache: CacheSettings{
			Backend:  strings.ToLower(strings.TrimSpace(v.GetString("cache.backend"))),
			Path:     v.GetString("cache.path"),
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      duration("cache.ttl"),
		},
		ContiguousRebuild: v.GetBool("processing.contiguous_rebuild"),
		LogLevel:          v.GetString("log.level"),
		Environment:       v.GetString("log.environment"),
		MetricsAddr:       v.GetString("metrics_addr"),
	}

	return s, errors.Join(errs...)
}

// Validate checks the core configuration and the runtime knobs.
func (s Settings) Validate() error {
	errs := []error{s.Core.Validate()}

	switch s.Cache.Backend {
	case CacheFile:
		if s.Core.CacheEnabled && s.Cache.Path == "" {
			errs = append(errs, errors.New("cache.path is required for the file cache"))
		}
	case CacheMemory:
	case CacheRedis:
		if s.Core.CacheEnabled && s.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", s.Cache.Backend))
	}

	if s.Backend.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %d", s.Backend.RateLimit))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s.LogLevel))); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", s.LogLevel, err))
	}

	return errors.Join(errs...)
}

// stringList accepts a YAML list or a comma-separated string.
func stringList(raw any) []string {
	var items []string
	switch t := raw.(type) {
	case string:
		items = strings.Split(t, ",")
	case []string:
		items = t
	case []any:
		for _, item := range t {
			items = append(items, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseDuration accepts Go durations ("1.5s") and bare numbers of seconds.
func parseDuration(raw any) (time.Duration, error) {
	switch t := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return t, nil
	case int:
		return time.Duration(t) * time.Second, nil
	case int64:
		return time.Duration(t) * time.Second, nil
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, nil
		}
		if secs, err := strconv.ParseFloat(t, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return time.ParseDuration(t)
	default:
		return 0, fmt.Errorf("unsupported duration %v", raw)
	}
}
