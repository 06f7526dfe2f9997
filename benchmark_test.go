package polyglot_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/cache"
	"github.com/ZaguanLabs/polyglot/processor"
	"github.com/ZaguanLabs/polyglot/provider"
)

// Benchmarks for performance-critical paths

func BenchmarkCacheKey(b *testing.B) {
	text := "Hello, world! This is a test string for hashing."
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		polyglot.CacheKey(text, "en", "sk")
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache()
	_ = c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_Set(b *testing.B) {
	c := cache.NewInMemoryCache()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Set("test-key", "test-value")
	}
}

func BenchmarkFormattingPreserver_RoundTrip(b *testing.B) {
	f := polyglot.NewFormattingPreserver()
	text := "See **bold** and `code` at https://example.com or mail {name} at a@b.io"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		clean, ph := f.Extract(text)
		f.Restore(clean, ph)
	}
}

const benchHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<nav><a href="/">Home</a><a href="/about">About</a></nav>
	<main>
		<h1>Welcome to Our Site</h1>
		<p>This is a paragraph with some text.</p>
		<p>Another paragraph here.</p>
		<ul>
			<li>Item one</li>
			<li>Item two</li>
			<li>Item three</li>
		</ul>
	</main>
	<footer><p>Copyright 2024</p></footer>
</body>
</html>`

func BenchmarkHTMLProcessor_Extract(b *testing.B) {
	proc := processor.NewHTMLProcessor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Extract(benchHTML)
	}
}

func BenchmarkMarkdownProcessor_Extract(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "## Section %d\n\nSome **bold** prose with a [link](https://example.com).\n\n- item\n\n```\ncode\n```\n\n", i)
	}
	doc := sb.String()
	proc := processor.NewMarkdownProcessor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Extract(doc)
	}
}

func BenchmarkJSONProcessor_Rebuild(b *testing.B) {
	doc := `{"app": {"title": "Hello", "menu": ["Open file", "Save file", "Quit"], "about": {"text": "A small tool"}}}`
	proc := processor.NewJSONProcessor()
	units, _ := proc.Extract(doc)
	translations := make(map[string]string, len(units))
	for _, u := range units {
		translations[u.ID] = strings.ToUpper(u.Text)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = proc.Rebuild(doc, translations)
	}
}

func BenchmarkOrchestrator_Cached(b *testing.B) {
	orch := polyglot.NewOrchestrator(provider.NewMockProvider(), polyglot.WithCache(cache.NewInMemoryCache()))
	ctx := context.Background()

	// Prime the cache
	orch.TranslateText(ctx, "Hello World", "sk", "en")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		orch.TranslateText(ctx, "Hello World", "sk", "en")
	}
}

func BenchmarkOrchestrator_Uncached(b *testing.B) {
	orch := polyglot.NewOrchestrator(provider.NewMockProvider())
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		orch.TranslateText(ctx, "Read **the docs** at https://example.com", "sk", "en")
	}
}

func BenchmarkGetLanguageName(b *testing.B) {
	langs := []string{"en_US", "sk", "hu", "de-DE", "pl"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		polyglot.GetLanguageName(langs[i%len(langs)])
	}
}
