package query

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ResultCache is a bounded cache mapping raw query strings to their parse
// outcome. Entries are keyed by the xxhash of the query and confirmed against
// the full text. When the cache is full the entire map is replaced.
//
// Cached results are shared between callers and MUST NOT be modified.
// All methods are safe for concurrent use.
type ResultCache struct {
	mu    sync.RWMutex
	items map[uint64]cacheEntry
	max   int
}

// Outcome is a cached parse outcome.
type Outcome struct {
	Result *Result
	Err    error
}

type cacheEntry struct {
	rawQuery string
	outcome  Outcome
}

// NewResultCache creates a cache holding at most max entries.
func NewResultCache(max int) *ResultCache {
	if max < 0 {
		max = 0
	}
	return &ResultCache{
		items: make(map[uint64]cacheEntry, max),
		max:   max,
	}
}

// Get returns the cached outcome for rawQuery.
func (c *ResultCache) Get(rawQuery string) (Outcome, bool) {
	c.mu.RLock()
	entry, ok := c.items[xxhash.Sum64String(rawQuery)]
	c.mu.RUnlock()
	if !ok || entry.rawQuery != rawQuery {
		return Outcome{}, false
	}
	return entry.outcome, true
}

// Put stores the outcome for rawQuery.
func (c *ResultCache) Put(rawQuery string, outcome Outcome) {
	if c.max <= 0 {
		return
	}
	c.mu.Lock()
	if len(c.items) >= c.max {
		c.items = make(map[uint64]cacheEntry, c.max)
	}
	c.items[xxhash.Sum64String(rawQuery)] = cacheEntry{rawQuery: rawQuery, outcome: outcome}
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
