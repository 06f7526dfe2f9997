package polyglot

import "testing"

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey("Hello World", "en", "sk")
	b := CacheKey("Hello World", "en", "sk")

	if a != b {
		t.Errorf("CacheKey should be deterministic: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestCacheKey_Distinct(t *testing.T) {
	tests := []struct {
		name string
		a    [3]string
		b    [3]string
	}{
		{"different text", [3]string{"Hello", "en", "sk"}, [3]string{"World", "en", "sk"}},
		{"different target", [3]string{"Hello", "en", "sk"}, [3]string{"Hello", "en", "de"}},
		{"different source", [3]string{"Hello", "en", "sk"}, [3]string{"Hello", "hu", "sk"}},
		{"shifted boundary", [3]string{"a|b", "c", "d"}, [3]string{"a", "b|c", "d"}},
		{"whitespace matters", [3]string{"Hello ", "en", "sk"}, [3]string{"Hello", "en", "sk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := CacheKey(tt.a[0], tt.a[1], tt.a[2])
			kb := CacheKey(tt.b[0], tt.b[1], tt.b[2])
			if ka == kb {
				t.Errorf("expected different keys for %v and %v", tt.a, tt.b)
			}
		})
	}
}

func TestCacheKey_EmptySourceIsAuto(t *testing.T) {
	if CacheKey("Hello", "", "sk") != CacheKey("Hello", AutoLang, "sk") {
		t.Error("empty source language should key like \"auto\"")
	}
}
