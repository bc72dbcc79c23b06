// Package cache provides the run-scoped product catalog cache. It lives
// and dies with a single pipeline run and is never persisted.
package cache

import (
	"sync"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
)

// cacheEntry wraps a lookup outcome. A nil Entry with resolved=false
// never occurs; unresolved keys carry a nil Entry.
type cacheEntry struct {
	entry *entity.CatalogEntry
}

// CatalogCache is a thread-safe map from catalog key to lookup outcome.
// Failed lookups are cached as negative entries so a failing key is
// attempted at most once per run.
type CatalogCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCatalogCache creates an empty cache.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached outcome for key. ok reports whether the key was
// attempted this run; entry is nil for a cached failure.
func (c *CatalogCache) Get(key string) (entry *entity.CatalogEntry, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.entry, true
}

// Put stores a successful lookup.
func (c *CatalogCache) Put(entry *entity.CatalogEntry) {
	if entry == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = cacheEntry{entry: entry}
}

// PutUnresolved stores a negative entry for a key whose lookup failed.
func (c *CatalogCache) PutUnresolved(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{}
}

// Size returns the number of keys attempted, resolved or not.
func (c *CatalogCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Resolved returns the number of keys with catalog metadata.
func (c *CatalogCache) Resolved() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if e.entry != nil {
			n++
		}
	}
	return n
}

// Clear empties the cache.
func (c *CatalogCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
