package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/polyglot"
)

var (
	mdBold   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic = regexp.MustCompile(`\*(.*?)\*`)
	mdCode   = regexp.MustCompile("`(.*?)`")
	mdLink   = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
)

// minProseWords is the word count a line must exceed to be translated.
const minProseWords = 2

// MarkdownProcessor handles Markdown line by line. Headings become
// header_<line> units and prose lines become line_<line> units; everything
// else, including fenced and indented code, passes through untouched.
type MarkdownProcessor struct{}

// NewMarkdownProcessor creates a Markdown processor.
func NewMarkdownProcessor() *MarkdownProcessor {
	return &MarkdownProcessor{}
}

// Format returns polyglot.FormatMarkdown.
func (p *MarkdownProcessor) Format() polyglot.Format {
	return polyglot.FormatMarkdown
}

// CanProcess reports whether path is a .md or .markdown file.
func (p *MarkdownProcessor) CanProcess(path string) bool {
	return hasFormat(path, polyglot.FormatMarkdown)
}

// mdLine classifies one source line.
type mdLine struct {
	kind   mdKind
	indent string // Leading whitespace
	depth  int    // Number of '#' for headings
	text   string // Text to translate
	cr     bool   // Line ended with "\r\n"
}

type mdKind int

const (
	mdOther mdKind = iota
	mdHeader
	mdProse
)

func (l mdLine) id(n int) string {
	if l.kind == mdHeader {
		return fmt.Sprintf("header_%d", n)
	}
	return fmt.Sprintf("line_%d", n)
}

// Extract returns heading and prose units keyed by zero-based line number.
func (p *MarkdownProcessor) Extract(content string) ([]polyglot.TranslatableUnit, error) {
	var units []polyglot.TranslatableUnit
	for n, l := range classifyMarkdown(content) {
		if l.kind == mdOther {
			continue
		}
		units = append(units, polyglot.TranslatableUnit{ID: l.id(n), Text: l.text})
	}
	return units, nil
}

// Rebuild substitutes translated lines. Headings keep their indentation and
// '#' depth; line endings are kept as they were.
func (p *MarkdownProcessor) Rebuild(content string, translations map[string]string) (string, error) {
	if len(translations) == 0 {
		return content, nil
	}

	lines := strings.Split(content, "\n")
	for n, l := range classifyMarkdown(content) {
		if l.kind == mdOther {
			continue
		}
		translated, ok := translations[l.id(n)]
		if !ok {
			continue
		}

		var b strings.Builder
		b.WriteString(l.indent)
		if l.kind == mdHeader {
			b.WriteString(strings.Repeat("#", l.depth))
			b.WriteByte(' ')
		}
		b.WriteString(translated)
		if l.cr {
			b.WriteByte('\r')
		}
		lines[n] = b.String()
	}
	return strings.Join(lines, "\n"), nil
}

// classifyMarkdown returns one entry per "\n"-separated line of content.
func classifyMarkdown(content string) []mdLine {
	raw := strings.Split(content, "\n")
	out := make([]mdLine, len(raw))

	var fence string
	for n, line := range raw {
		l := mdLine{}
		if strings.HasSuffix(line, "\r") {
			l.cr = true
			line = strings.TrimSuffix(line, "\r")
		}
		trimmed := strings.TrimSpace(line)
		l.indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		if marker := fenceMarker(trimmed); marker != "" && !isIndentedCode(l.indent) {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(marker, fence) && strings.TrimLeft(trimmed, fence[:1]) == "":
				fence = ""
			}
			out[n] = l
			continue
		}
		if fence != "" || trimmed == "" || isIndentedCode(l.indent) {
			out[n] = l
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			header := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			if header != "" {
				l.kind = mdHeader
				l.depth = len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
				l.text = header
			}
			out[n] = l
			continue
		}

		clean := cleanMarkdown(trimmed)
		if len(strings.Fields(clean)) > minProseWords {
			l.kind = mdProse
			l.text = clean
		}
		out[n] = l
	}
	return out
}

// fenceMarker returns the run of backticks or tildes opening line, if it is
// at least three long.
func fenceMarker(trimmed string) string {
	for _, c := range []string{"`", "~"} {
		if strings.HasPrefix(trimmed, c+c+c) {
			run := len(trimmed) - len(strings.TrimLeft(trimmed, c))
			return trimmed[:run]
		}
	}
	return ""
}

func isIndentedCode(indent string) bool {
	return strings.Contains(indent, "\t") || len(indent) >= 4
}

// cleanMarkdown strips inline emphasis, code and link markup, keeping the text.
func cleanMarkdown(text string) string {
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdCode.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

var _ FormatProcessor = (*MarkdownProcessor)(nil)
