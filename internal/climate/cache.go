package climate

import "sync"

// Cache is the contract a Provider uses to memoize observation sets per
// (location, window) key. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) (*ObservationSet, bool)
	Put(key string, set *ObservationSet)
}

// MemoryCache is a concurrency-safe in-memory Cache. Entries live for the
// process lifetime; there is no TTL, sizing limit, or eviction.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]*ObservationSet
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*ObservationSet),
	}
}

// Get returns the cached set for key, if any.
func (c *MemoryCache) Get(key string) (*ObservationSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set, ok := c.data[key]
	return set, ok
}

// Put stores a set under key unless one is already present.
func (c *MemoryCache) Put(key string, set *ObservationSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; ok {
		return
	}
	c.data[key] = set
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
