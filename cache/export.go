package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/renameio/v2"
)

// ExportVersion is written to every export.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter provides cache export functionality.
type Exporter struct {
	cache Enumerable
	now   func() time.Time
}

// NewExporter creates a new cache exporter.
func NewExporter(cache Enumerable) *Exporter {
	return &Exporter{cache: cache, now: time.Now}
}

// Export writes the cache contents to w as indented JSON, sorted by key.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	data, err := e.cache.Entries()
	if err != nil {
		return fmt.Errorf("getting cache entries: %w", err)
	}

	entries := make([]ExportEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to path, replacing it atomically.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	var buf bytes.Buffer
	if err := e.Export(&buf, metadata); err != nil {
		return err
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

// Importer provides cache import functionality.
type Importer struct {
	cache TranslationCache
}

// NewImporter creates a new cache importer.
func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Import reads cache entries from r and stores them in the cache.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if export.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", export.Version)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}
