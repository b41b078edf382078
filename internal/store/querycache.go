package store

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/wubrg/tutor/internal/query"
)

// compiledQueryCache is a simple bounded cache that maps raw search strings to
// their compiled WHERE fragments. It is shared across requests so that repeated
// identical searches (common in pagination traffic) do not incur the cost of
// balancing, parsing, validating and compiling every time.
//
// Keys are xxhash digests of the dialect, the per-face setting and the raw
// query, so the map never retains caller-supplied strings.
//
// Eviction strategy: when the cache reaches its capacity limit the entire map is
// replaced. This is simpler than a true LRU and sufficient for the target
// use-case (a small number of distinct search templates repeated many times).
//
// Thread safety: all methods are safe for concurrent use. Cached entries are
// shared between goroutines; callers must not modify the returned SQL or Args.
type compiledQueryCache struct {
	mu    sync.RWMutex
	items map[uint64]*query.CompiledQuery
	max   int
}

const defaultCacheSize = 256

func newCompiledQueryCache(max int) *compiledQueryCache {
	if max <= 0 {
		max = defaultCacheSize
	}
	return &compiledQueryCache{
		items: make(map[uint64]*query.CompiledQuery, max),
		max:   max,
	}
}

// cacheKey hashes the compile inputs that change the output. The zero
// byte separators keep adjacent inputs from colliding.
func cacheKey(dialect query.Dialect, perFace bool, raw string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(dialect))
	_, _ = h.Write([]byte{0})
	if perFace {
		_, _ = h.Write([]byte{1})
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(raw)
	return h.Sum64()
}

func (c *compiledQueryCache) get(key uint64) (*query.CompiledQuery, bool) {
	c.mu.RLock()
	v, ok := c.items[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *compiledQueryCache) put(key uint64, cq *query.CompiledQuery) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking individual entry ages.
		c.items = make(map[uint64]*query.CompiledQuery, c.max)
	}
	c.items[key] = cq
	c.mu.Unlock()
}

func (c *compiledQueryCache) len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}
