package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ZaguanLabs/polyglot"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxConstantLen is the length below which an all-caps string is treated as
// a constant rather than prose.
const maxConstantLen = 10

// JSONProcessor handles JSON documents. Every prose string leaf becomes a
// unit keyed by its path ("a.b[2].c"); rebuild rewrites only those leaves so
// the rest of the document stays byte-identical.
type JSONProcessor struct {
	logger zerolog.Logger
}

// NewJSONProcessor creates a JSON processor.
func NewJSONProcessor(opts ...Option) *JSONProcessor {
	o := buildOptions(opts)
	return &JSONProcessor{logger: o.logger}
}

// Format returns polyglot.FormatJSON.
func (p *JSONProcessor) Format() polyglot.Format {
	return polyglot.FormatJSON
}

// CanProcess reports whether path is a .json file.
func (p *JSONProcessor) CanProcess(path string) bool {
	return hasFormat(path, polyglot.FormatJSON)
}

// jsonLeaf is one string value together with the paths that address it.
type jsonLeaf struct {
	id    string // Display path, used as the unit identifier
	query string // Escaped gjson/sjson path
	text  string
}

// Extract walks the document in key order. Invalid JSON yields no units.
func (p *JSONProcessor) Extract(content string) ([]polyglot.TranslatableUnit, error) {
	if !gjson.Valid(content) {
		p.logger.Warn().Msg("invalid JSON content, nothing to translate")
		return nil, nil
	}

	var units []polyglot.TranslatableUnit
	for _, leaf := range p.walk(content) {
		units = append(units, polyglot.TranslatableUnit{ID: leaf.id, Text: leaf.text})
	}
	return units, nil
}

// Rebuild writes each translation at its path. Invalid JSON is returned
// unchanged; identifiers that no longer address a string are skipped with a
// warning.
func (p *JSONProcessor) Rebuild(content string, translations map[string]string) (string, error) {
	if len(translations) == 0 || !gjson.Valid(content) {
		return content, nil
	}

	walked := p.walk(content)
	leaves := make(map[string]bool, len(walked))
	for _, leaf := range walked {
		leaves[leaf.id] = true
	}

	// Writes go in document order so the output is deterministic.
	out := content
	for _, leaf := range walked {
		translated, ok := translations[leaf.id]
		if !ok {
			continue
		}
		raw, err := encodeJSONString(translated)
		if err != nil {
			return "", &polyglot.ProcessorError{
				Message: fmt.Sprintf("failed to encode translation for %s", leaf.id),
				Cause:   err,
				Format:  polyglot.FormatJSON,
			}
		}
		next, err := sjson.SetRaw(out, leaf.query, raw)
		if err != nil {
			p.logger.Warn().Err(err).Str("path", leaf.id).Msg("could not set JSON value")
			continue
		}
		out = next
	}

	for id := range translations {
		if !leaves[id] {
			p.logger.Warn().Str("path", id).Msg("JSON path does not resolve to a string, skipped")
		}
	}

	return out, nil
}

// walk returns the translatable string leaves of content in document order.
// Leaves behind an empty object key or a duplicate key cannot be addressed
// unambiguously and are left out.
func (p *JSONProcessor) walk(content string) []jsonLeaf {
	var leaves []jsonLeaf
	seen := make(map[string]bool)

	var visit func(v gjson.Result, id string, query []string)
	visit = func(v gjson.Result, id string, query []string) {
		switch {
		case v.IsObject():
			v.ForEach(func(key, value gjson.Result) bool {
				k := key.String()
				if k == "" {
					return true
				}
				childID := k
				if id != "" {
					childID = id + "." + k
				}
				visit(value, childID, appendPath(query, escapePathComponent(k)))
				return true
			})
		case v.IsArray():
			i := 0
			v.ForEach(func(_, value gjson.Result) bool {
				visit(value, fmt.Sprintf("%s[%d]", id, i), appendPath(query, fmt.Sprint(i)))
				i++
				return true
			})
		case v.Type == gjson.String:
			if len(query) == 0 || seen[id] || isTechnicalString(v.Str) {
				return
			}
			seen[id] = true
			leaves = append(leaves, jsonLeaf{id: id, query: strings.Join(query, "."), text: v.Str})
		}
	}
	visit(gjson.Parse(content), "", nil)

	return leaves
}

// escapePathComponent backslash-escapes every ASCII byte of an object key
// that has a meaning in gjson/sjson path syntax.
func escapePathComponent(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		safe := c >= 0x80 || c == '_' || c == '-' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !safe {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func appendPath(path []string, comp string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, comp)
}

// isTechnicalString reports strings that are not prose: too short, digits,
// links, anchors or short all-caps constants.
func isTechnicalString(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < 2 {
		return true
	}
	if strings.HasPrefix(text, "http") || strings.HasPrefix(text, "www.") || strings.HasPrefix(text, "#") {
		return true
	}
	if allDigits(text) {
		return true
	}
	return strings.ToUpper(text) == text && utf8.RuneCountInString(text) < maxConstantLen
}

func allDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// encodeJSONString returns text as a JSON string literal without HTML escaping.
func encodeJSONString(text string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

var _ FormatProcessor = (*JSONProcessor)(nil)
