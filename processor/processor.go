// Package processor locates translatable fragments in documents and splices
// translations back into them.
package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/polyglot"
	"github.com/rs/zerolog"
)

// FormatProcessor extracts units from one document grammar and rebuilds a
// document from translated units plus the untouched original.
type FormatProcessor interface {
	// Format returns the grammar this processor handles.
	Format() polyglot.Format

	// CanProcess reports whether path has an extension this processor handles.
	CanProcess(path string) bool

	// Extract returns the translatable units of content in document order.
	// Identifiers are stable for identical input.
	Extract(content string) ([]polyglot.TranslatableUnit, error)

	// Rebuild returns content with every unit found in translations replaced.
	// Units without a translation keep their original text.
	Rebuild(content string, translations map[string]string) (string, error)
}

type options struct {
	logger     zerolog.Logger
	contiguous bool
}

// Option configures a processor.
type Option func(*options)

// WithLogger sets the logger used for non-fatal warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContiguousRebuild makes the plain-text processor stop at the first
// paragraph without a translation instead of falling back to the original
// paragraph. The CLI enables it with processing.contiguous_rebuild.
func WithContiguousRebuild() Option {
	return func(o *options) {
		o.contiguous = true
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the processor for format.
func New(format polyglot.Format, opts ...Option) (FormatProcessor, error) {
	o := buildOptions(opts)

	switch format {
	case polyglot.FormatPlain:
		return &PlainProcessor{contiguous: o.contiguous}, nil
	case polyglot.FormatMarkdown:
		return &MarkdownProcessor{}, nil
	case polyglot.FormatHTML:
		return &HTMLProcessor{logger: o.logger}, nil
	case polyglot.FormatJSON:
		return &JSONProcessor{logger: o.logger}, nil
	case polyglot.FormatUnknown:
		return nil, fmt.Errorf("%w: unknown", polyglot.ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %d", polyglot.ErrUnsupportedFormat, int(format))
	}
}

// ForPath returns the processor selected by the extension of path.
func ForPath(path string, opts ...Option) (FormatProcessor, error) {
	format := polyglot.FormatForPath(path)
	if format == polyglot.FormatUnknown {
		return nil, fmt.Errorf("%w: %q", polyglot.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return New(format, opts...)
}

// hasFormat reports whether the extension of path maps to format.
func hasFormat(path string, format polyglot.Format) bool {
	return polyglot.FormatExtensions[strings.ToLower(filepath.Ext(path))] == format
}
