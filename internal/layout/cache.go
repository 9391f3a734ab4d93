package layout

import (
	"sync"

	"cshape/internal/types"
)

type cacheKey struct {
	Type types.TypeID
	Pack int // effective pack bound, so runs under a forced bound never mix
}

type cacheEntry struct {
	Layout TypeLayout
	Err    *Error
}

// cache is the per-engine memo table. It is guarded so independent
// subgraphs may be resolved from parallel goroutines; the graph itself is
// never written.
type cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey]*cacheEntry, 256)}
}

func (c *cache) get(key cacheKey) (*cacheEntry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *cache) put(key cacheKey, e *cacheEntry) {
	if c == nil || e == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}
