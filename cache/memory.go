package cache

import (
	"maps"
	"sync"
)

// InMemoryCache is a thread-safe in-memory cache. Entries never expire.
type InMemoryCache struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: make(map[string]string),
	}
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.cache[key]
	return val, ok
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = value
	return nil
}

// Len returns the number of entries in the cache.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]string)
}

// Entries returns a copy of all entries.
func (c *InMemoryCache) Entries() (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.cache), nil
}

var (
	_ TranslationCache = (*InMemoryCache)(nil)
	_ Enumerable       = (*InMemoryCache)(nil)
)
