package processor

import (
	"testing"
)

func TestPlainProcessor_Extract(t *testing.T) {
	p := NewPlainProcessor()

	units, err := p.Extract("A1 line.\n\nB1 line.")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(units))
	}
	if units[0].ID != "paragraph_0" || units[0].Text != "A1 line." {
		t.Errorf("unexpected unit 0: %+v", units[0])
	}
	if units[1].ID != "paragraph_1" || units[1].Text != "B1 line." {
		t.Errorf("unexpected unit 1: %+v", units[1])
	}
}

func TestPlainProcessor_Extract_JoinsLines(t *testing.T) {
	p := NewPlainProcessor()

	units, _ := p.Extract("  first line\r\n second line  \r\n\r\n\n\nthird\n")
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %+v", units)
	}
	if units[0].Text != "first line second line" {
		t.Errorf("lines should be joined with a space, got %q", units[0].Text)
	}
	if units[1].ID != "paragraph_1" || units[1].Text != "third" {
		t.Errorf("unexpected unit 1: %+v", units[1])
	}
}

func TestPlainProcessor_Rebuild(t *testing.T) {
	p := NewPlainProcessor()

	result, err := p.Rebuild("A1 line.\n\nB1 line.", map[string]string{
		"paragraph_0": "A1 riadok.",
		"paragraph_1": "B1 riadok.",
	})
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if result != "A1 riadok.\n\nB1 riadok." {
		t.Errorf("unexpected rebuild: %q", result)
	}
}

func TestPlainProcessor_Rebuild_GapKeepsParagraphCount(t *testing.T) {
	p := NewPlainProcessor()

	result, _ := p.Rebuild("One.\n\nTwo.\n\nThree.", map[string]string{
		"paragraph_0": "Jeden.",
		"paragraph_2": "Tri.",
	})
	if result != "Jeden.\n\nTwo.\n\nTri." {
		t.Errorf("unexpected rebuild: %q", result)
	}
}

func TestPlainProcessor_Rebuild_Contiguous(t *testing.T) {
	p := NewPlainProcessor(WithContiguousRebuild())

	result, _ := p.Rebuild("One.\n\nTwo.\n\nThree.", map[string]string{
		"paragraph_0": "Jeden.",
		"paragraph_2": "Tri.",
	})
	if result != "Jeden." {
		t.Errorf("gap should truncate the output, got %q", result)
	}
}

func TestPlainProcessor_Rebuild_NoTranslations(t *testing.T) {
	for _, p := range []*PlainProcessor{NewPlainProcessor(), NewPlainProcessor(WithContiguousRebuild())} {
		content := "  One.\n\n\nTwo.  \n"
		result, _ := p.Rebuild(content, map[string]string{})
		if result != content {
			t.Errorf("content should be returned verbatim, got %q", result)
		}
	}
}

func TestPlainProcessor_Extract_Empty(t *testing.T) {
	p := NewPlainProcessor()

	units, err := p.Extract("\n  \n\t\n")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("Expected no units, got %+v", units)
	}
}
