package polyglot

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies one of the supported document grammars.
type Format int

const (
	// FormatUnknown is returned for extensions no processor handles.
	FormatUnknown Format = iota
	// FormatPlain is paragraph-oriented plain text (.txt).
	FormatPlain
	// FormatMarkdown is line-oriented Markdown (.md, .markdown).
	FormatMarkdown
	// FormatHTML is an HTML document or fragment (.html, .htm).
	FormatHTML
	// FormatJSON is any JSON value (.json).
	FormatJSON
)

// String returns the short name of the format.
func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatExtensions maps lower-case file extensions to formats.
var FormatExtensions = map[string]Format{
	".txt":      FormatPlain,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".json":     FormatJSON,
}

// FormatForPath returns the format selected by the file extension of path.
func FormatForPath(path string) Format {
	if f, ok := FormatExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatUnknown
}

// TranslatableUnit is one identified span of translatable text.
// The ID is unique within one extraction pass and stable for identical input.
type TranslatableUnit struct {
	ID   string // Position-derived identifier ("paragraph_0", "p_3", "a.b[2].c")
	Text string // Text handed to the backend
}

// TranslationMap maps target language -> unit ID -> translated text.
type TranslationMap map[string]map[string]string

// Set records one cell. Cells are written once; a second write for the same
// language and ID is ignored and reported as false.
func (m TranslationMap) Set(lang, id, text string) bool {
	cells, ok := m[lang]
	if !ok {
		cells = make(map[string]string)
		m[lang] = cells
	}
	if _, exists := cells[id]; exists {
		return false
	}
	cells[id] = text
	return true
}

// Confidence values reported in TranslationResult.
const (
	ConfidenceIdentity = 1.0
	ConfidenceCached   = 0.9
	ConfidenceBackend  = 0.8
)

// TranslationResult is the outcome of translating one piece of text.
type TranslationResult struct {
	OriginalText   string
	TranslatedText string
	SourceLang     string
	TargetLang     string
	Service        string // Backend name, or "none" when no call was needed
	Confidence     float64
	Duration       time.Duration
	Attempts       int  // Backend calls made
	Cached         bool // Served from the translation cache
	Err            error
}

// Failed reports whether the translation did not produce usable text.
func (r TranslationResult) Failed() bool {
	return r.Err != nil
}

// PipelineResult is the outcome of processing one document.
type PipelineResult struct {
	Path        string
	Format      Format
	Success     bool
	OutputPaths []string // One per target language, in configuration order
	Fragments   int      // Units extracted from the document
	Translated  int      // Cells filled by the backend
	Cached      int      // Cells served from cache
	Degraded    int      // Cells that fell back to the original text
	Duration    time.Duration
	Error       string
}

// BatchSummary aggregates the results of one pipeline run.
type BatchSummary struct {
	Results   []PipelineResult
	Total     int
	Processed int
	Failed    int
	Fragments int
	Duration  time.Duration
}

// SuccessRate returns the share of successful documents as a percentage.
func (s BatchSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.Total) * 100
}
