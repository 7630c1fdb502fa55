package store

import "sync"

// memCache keeps recently used objects in memory. Eviction is arbitrary
// rather than LRU; the archive working set is a handful of small packs.
type memCache struct {
	maxSize int
	items   map[string][]byte
	mu      sync.RWMutex
}

func newMemCache(maxSize int) *memCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &memCache{
		maxSize: maxSize,
		items:   make(map[string][]byte),
	}
}

func (c *memCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *memCache) add(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		for k := range c.items {
			delete(c.items, k)
			break
		}
	}
	c.items[key] = value
}

func (c *memCache) has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}
