package polyglot

import (
	"fmt"
	"regexp"
	"strings"
)

// preservePattern is one class of structural markup hidden from the backend.
type preservePattern struct {
	name string
	re   *regexp.Regexp
}

// preservePatterns are applied in this order. A span consumed by an earlier
// pattern is already a token when later patterns run.
var preservePatterns = []preservePattern{
	{"HTML_TAG", regexp.MustCompile(`<[^>]+>`)},
	{"PLACEHOLDER", regexp.MustCompile(`\{[^}]+\}`)},
	{"BRACKET", regexp.MustCompile(`\[[^\]]+\]`)},
	{"BOLD", regexp.MustCompile(`\*\*[^*]+\*\*`)},
	{"ITALIC", regexp.MustCompile(`\*[^*]+\*`)},
	{"CODE", regexp.MustCompile("`[^`]+`")},
	{"URL", regexp.MustCompile(`https?://[^\s]+`)},
	{"EMAIL", regexp.MustCompile(`\w+@\w+\.\w+`)},
}

// Placeholder maps one synthetic token to the literal it replaced.
type Placeholder struct {
	Token    string
	Original string
}

// Placeholders is the mapping produced by one Extract call, in creation order.
type Placeholders []Placeholder

// Lookup returns the original literal for token.
func (p Placeholders) Lookup(token string) (string, bool) {
	for _, ph := range p {
		if ph.Token == token {
			return ph.Original, true
		}
	}
	return "", false
}

// FormattingPreserver replaces inline markup (tags, placeholders, links,
// emphasis, code spans, URLs, emails) with opaque tokens before translation
// and puts it back afterwards.
type FormattingPreserver struct{}

// NewFormattingPreserver creates a FormattingPreserver.
func NewFormattingPreserver() *FormattingPreserver {
	return &FormattingPreserver{}
}

// Extract returns text with every recognized structural span replaced by a
// token, together with the token mapping.
//
// Tokens have the form ___NAME_i_j___ where i is the pattern index and j the
// match number. If the input already contains a token name, a marker is added
// to the names until it does not, and the finished clean text is checked so
// every token occurs exactly once, including across token boundaries.
func (f *FormattingPreserver) Extract(text string) (string, Placeholders) {
	for marker := tokenMarker(text, ""); ; marker += "X" {
		clean, placeholders := extractWithMarker(text, marker)
		if tokensUnique(clean, placeholders) {
			return clean, placeholders
		}
	}
}

func extractWithMarker(text, marker string) (string, Placeholders) {
	var placeholders Placeholders
	clean := text
	for i, p := range preservePatterns {
		j := 0
		clean = p.re.ReplaceAllStringFunc(clean, func(match string) string {
			token := fmt.Sprintf("___%s%s_%d_%d___", p.name, marker, i, j)
			j++
			placeholders = append(placeholders, Placeholder{Token: token, Original: match})
			return token
		})
	}
	return clean, placeholders
}

// tokensUnique reports whether each token is found exactly where it was
// placed. A token absorbed by a later pattern lives inside another token's
// original and is not counted in clean.
func tokensUnique(clean string, placeholders Placeholders) bool {
	absorbed := make(map[string]bool)
	for _, ph := range placeholders {
		for _, other := range placeholders {
			if other.Token != ph.Token && strings.Contains(other.Original, ph.Token) {
				absorbed[ph.Token] = true
			}
		}
	}
	for _, ph := range placeholders {
		want := 1
		if absorbed[ph.Token] {
			want = 0
		}
		if strings.Count(clean, ph.Token) != want {
			return false
		}
	}
	return true
}

// Restore replaces every token in text with its original literal. Tokens are
// restored newest first so a token captured inside a later match comes back too.
func (f *FormattingPreserver) Restore(text string, placeholders Placeholders) string {
	for i := len(placeholders) - 1; i >= 0; i-- {
		ph := placeholders[i]
		text = strings.ReplaceAll(text, ph.Token, ph.Original)
	}
	return text
}

// tokenMarker returns the shortest extension of marker, made of "X", such
// that no token name followed by it appears in text.
func tokenMarker(text, marker string) string {
	for {
		clash := false
		for _, p := range preservePatterns {
			if strings.Contains(text, p.name+marker) {
				clash = true
				break
			}
		}
		if !clash {
			return marker
		}
		marker += "X"
	}
}
