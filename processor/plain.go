package processor

import (
	"fmt"
	"strings"

	"github.com/ZaguanLabs/polyglot"
)

// PlainProcessor handles paragraph-oriented plain text. Paragraphs are
// separated by blank lines; the lines of one paragraph are joined with a
// single space.
type PlainProcessor struct {
	contiguous bool
}

// NewPlainProcessor creates a plain-text processor.
func NewPlainProcessor(opts ...Option) *PlainProcessor {
	o := buildOptions(opts)
	return &PlainProcessor{contiguous: o.contiguous}
}

// Format returns polyglot.FormatPlain.
func (p *PlainProcessor) Format() polyglot.Format {
	return polyglot.FormatPlain
}

// CanProcess reports whether path is a .txt file.
func (p *PlainProcessor) CanProcess(path string) bool {
	return hasFormat(path, polyglot.FormatPlain)
}

// Extract returns one paragraph_<i> unit per paragraph.
func (p *PlainProcessor) Extract(content string) ([]polyglot.TranslatableUnit, error) {
	paragraphs := splitParagraphs(content)
	units := make([]polyglot.TranslatableUnit, len(paragraphs))
	for i, text := range paragraphs {
		units[i] = polyglot.TranslatableUnit{ID: paragraphID(i), Text: text}
	}
	return units, nil
}

// Rebuild joins the paragraphs with a blank line. Without any translation the
// content is returned unchanged.
//
// By default every paragraph is kept, falling back to the original text where
// no translation exists. With WithContiguousRebuild the output stops at the
// first paragraph index without a translation.
func (p *PlainProcessor) Rebuild(content string, translations map[string]string) (string, error) {
	if len(translations) == 0 {
		return content, nil
	}

	paragraphs := splitParagraphs(content)
	out := make([]string, 0, len(paragraphs))
	for i, original := range paragraphs {
		translated, ok := translations[paragraphID(i)]
		switch {
		case ok:
			out = append(out, translated)
		case p.contiguous:
			return strings.Join(out, "\n\n"), nil
		default:
			out = append(out, original)
		}
	}
	return strings.Join(out, "\n\n"), nil
}

func paragraphID(i int) string {
	return fmt.Sprintf("paragraph_%d", i)
}

func splitParagraphs(content string) []string {
	var paragraphs []string
	var current []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

var _ FormatProcessor = (*PlainProcessor)(nil)
