package domains

import (
	"sync"
	"time"
)

// ResolveCache holds resolved tenants keyed by normalized hostname.
// Entries expire a fixed duration after insertion, independent of access.
type ResolveCache interface {
	Get(hostname string) (*Resolution, bool)
	Set(hostname string, res *Resolution)
	Delete(hostname string)
	Clear()
}

type cacheEntry struct {
	expires time.Time
	res     *Resolution
}

// MemoryCache is an in-process TTL cache for resolutions.
// It is constructed once per process and shared by reference.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates a cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached resolution for hostname if present and not expired.
// Expired entries are removed lazily on access.
func (c *MemoryCache) Get(hostname string) (*Resolution, bool) {
	c.mu.RLock()
	entry, ok := c.entries[hostname]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(entry.expires) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if e, ok := c.entries[hostname]; ok && c.now().After(e.expires) {
			delete(c.entries, hostname)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.res, true
}

// Set stores a resolution with expiry now + TTL.
// Concurrent redundant sets for the same hostname are benign; last writer wins.
func (c *MemoryCache) Set(hostname string, res *Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hostname] = cacheEntry{
		expires: c.now().Add(c.ttl),
		res:     res,
	}
}

// Delete evicts the entry for hostname, if any.
func (c *MemoryCache) Delete(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hostname)
}

// Clear removes every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports the number of entries, expired or not. Used by tests and metrics.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
