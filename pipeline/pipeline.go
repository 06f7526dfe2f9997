// Package pipeline drives documents through extraction, per-language
// translation, reconstruction and output.
package pipeline

import (
	"fmt"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/processor"
	"github.com/rs/zerolog"
)

// Pipeline processes documents with a fixed configuration and translator.
// It is safe for concurrent use.
type Pipeline struct {
	cfg        polyglot.Config
	translator polyglot.TextTranslator
	logger     zerolog.Logger
	metrics    *Metrics
	procOpts   []processor.Option
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records document and fragment outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithProcessorOptions passes options to every format processor.
func WithProcessorOptions(opts ...processor.Option) Option {
	return func(p *Pipeline) {
		p.procOpts = append(p.procOpts, opts...)
	}
}

// New creates a pipeline. cfg is validated once here.
func New(cfg polyglot.Config, translator polyglot.TextTranslator, opts ...Option) (*Pipeline, error) {
	if translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{
		cfg:        cfg,
		translator: translator,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	p.procOpts = append([]processor.Option{processor.WithLogger(p.logger)}, p.procOpts...)

	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() polyglot.Config {
	return p.cfg
}
