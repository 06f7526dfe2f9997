// Package cache provides translation cache stores keyed by polyglot.CacheKey.
package cache

import (
	"github.com/ZaguanLabs/polyglot"
	"github.com/rs/zerolog"
)

// TranslationCache is an alias to the main package interface.
type TranslationCache = polyglot.TranslationCache

// Enumerable is a cache whose entries can be listed, for export.
type Enumerable interface {
	Entries() (map[string]string, error)
}

type options struct {
	logger zerolog.Logger
}

// Option configures a cache store.
type Option func(*options)

// WithLogger sets the logger used for I/O warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
