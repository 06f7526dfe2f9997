package processor

import (
	"errors"
	"testing"

	"github.com/ZaguanLabs/polyglot"
)

func TestNew(t *testing.T) {
	formats := []polyglot.Format{
		polyglot.FormatPlain,
		polyglot.FormatMarkdown,
		polyglot.FormatHTML,
		polyglot.FormatJSON,
	}

	for _, f := range formats {
		t.Run(f.String(), func(t *testing.T) {
			p, err := New(f)
			if err != nil {
				t.Fatalf("New(%s) failed: %v", f, err)
			}
			if p.Format() != f {
				t.Errorf("Format() = %s, want %s", p.Format(), f)
			}
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(polyglot.FormatUnknown)
	if !errors.Is(err, polyglot.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	_, err = New(polyglot.Format(99))
	if !errors.Is(err, polyglot.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want polyglot.Format
	}{
		{"notes.txt", polyglot.FormatPlain},
		{"docs/README.md", polyglot.FormatMarkdown},
		{"guide.markdown", polyglot.FormatMarkdown},
		{"site/index.HTML", polyglot.FormatHTML},
		{"legacy.htm", polyglot.FormatHTML},
		{"locales/en.json", polyglot.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ForPath(tt.path)
			if err != nil {
				t.Fatalf("ForPath failed: %v", err)
			}
			if p.Format() != tt.want {
				t.Errorf("Format() = %s, want %s", p.Format(), tt.want)
			}
			if !p.CanProcess(tt.path) {
				t.Errorf("CanProcess(%q) = false", tt.path)
			}
		})
	}

	if _, err := ForPath("main.go"); !errors.Is(err, polyglot.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for .go, got %v", err)
	}
}

func TestForPath_ContiguousOption(t *testing.T) {
	p, err := ForPath("notes.txt", WithContiguousRebuild())
	if err != nil {
		t.Fatalf("ForPath failed: %v", err)
	}
	plain, ok := p.(*PlainProcessor)
	if !ok || !plain.contiguous {
		t.Errorf("expected contiguous plain processor, got %#v", p)
	}
}

func TestProcessors_CanProcessOnlyOwnExtensions(t *testing.T) {
	procs := []FormatProcessor{
		NewPlainProcessor(),
		NewMarkdownProcessor(),
		NewHTMLProcessor(),
		NewJSONProcessor(),
	}
	paths := []string{"a.txt", "a.md", "a.html", "a.json"}

	for i, p := range procs {
		for j, path := range paths {
			if got := p.CanProcess(path); got != (i == j) {
				t.Errorf("%s.CanProcess(%q) = %v", p.Format(), path, got)
			}
		}
	}
}
