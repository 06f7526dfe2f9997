package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/ZaguanLabs/polyglot"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// FileCache is a write-through cache persisted as one flat JSON object.
//
// The whole file is loaded once at construction and rewritten on every Set.
// Set holds the writer lock across modify-and-rewrite, so concurrent writers
// cannot lose each other's entries. Rewrites go through a temporary file and
// a rename, so a crash never leaves a truncated cache behind.
//
// If the file cannot be read or parsed, or a rewrite fails, the cache
// degrades: every Get misses and Set does nothing.
type FileCache struct {
	mu       sync.Mutex
	path     string
	data     map[string]string
	degraded bool
	logger   zerolog.Logger
}

// NewFileCache loads the cache at path. A missing file starts an empty cache.
func NewFileCache(path string, opts ...Option) *FileCache {
	o := buildOptions(opts)
	c := &FileCache{
		path:   path,
		data:   make(map[string]string),
		logger: o.logger.With().Str("cache_file", path).Logger(),
	}

	raw, err := os.ReadFile(path) // #nosec G304 - path is operator-provided
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Debug().Msg("cache file not found, starting empty")
	case err != nil:
		c.degrade(&polyglot.CacheError{Message: "failed to read cache file", Cause: err})
	case len(raw) > 0:
		if err := json.Unmarshal(raw, &c.data); err != nil {
			c.data = make(map[string]string)
			c.degrade(&polyglot.CacheError{Message: "failed to parse cache file", Cause: err})
		}
		if c.data == nil {
			c.data = make(map[string]string)
		}
	}
	if !c.degraded {
		c.logger.Debug().Int("entries", len(c.data)).Msg("translation cache loaded")
	}

	return c
}

// Get retrieves a value from the cache.
func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.degraded {
		return "", false
	}
	val, ok := c.data[key]
	return val, ok
}

// Set stores value and rewrites the cache file.
func (c *FileCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.degraded {
		return nil
	}

	c.data[key] = value
	if err := c.persist(); err != nil {
		cacheErr := &polyglot.CacheError{Message: "failed to write cache file", Cause: err}
		c.degrade(cacheErr)
		return cacheErr
	}
	return nil
}

// persist must be called with the lock held.
func (c *FileCache) persist() error {
	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return renameio.WriteFile(c.path, raw, 0o644)
}

// degrade must be called with the lock held or before the cache is shared.
func (c *FileCache) degrade(err error) {
	c.degraded = true
	c.logger.Warn().Err(err).Msg("translation cache disabled, continuing without it")
}

// Degraded reports whether the cache has fallen back to pass-through.
func (c *FileCache) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

// Len returns the number of entries held in memory.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Path returns the backing file path.
func (c *FileCache) Path() string {
	return c.path
}

// Entries returns a copy of all entries.
func (c *FileCache) Entries() (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.data), nil
}

var (
	_ TranslationCache = (*FileCache)(nil)
	_ Enumerable       = (*FileCache)(nil)
)
