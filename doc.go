// Package polyglot turns structured documents into translated variants.
//
// Polyglot extracts translatable fragments from plain text, Markdown, HTML
// and JSON documents, sends them through a translation backend with caching,
// formatting preservation and bounded retry, and splices the results back
// into the untouched document skeleton, one output per target language.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/polyglot"
//	    "github.com/ZaguanLabs/polyglot/cache"
//	    "github.com/ZaguanLabs/polyglot/pipeline"
//	    "github.com/ZaguanLabs/polyglot/provider"
//	)
//
//	func main() {
//	    cfg := polyglot.DefaultConfig()
//	    cfg.TargetLangs = []string{"en", "sk", "de"}
//
//	    backend := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    orch := polyglot.NewOrchestrator(backend,
//	        polyglot.WithConfig(cfg),
//	        polyglot.WithCache(cache.NewFileCache("cache/translations.json")),
//	    )
//
//	    p := pipeline.New(cfg, orch)
//	    result := p.ProcessDocument(context.Background(), "docs/index.html")
//	    fmt.Println(result.OutputPaths) // [docs/index.html docs/index_sk.html docs/index_de.html]
//	}
package polyglot
