package atlas

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultBakeCacheCapacity is the number of baked builtin fonts kept for
// reuse across tables.
const DefaultBakeCacheCapacity = 16

// bakeKey identifies one rasterization of a builtin font.
type bakeKey struct {
	name        string
	pixelHeight int
	width       int
}

type bakeCacheEntry struct {
	key   bakeKey
	value *bakedFont
}

// bakeCache is a thread-safe LRU of baked fonts. Baked fonts are never
// mutated after bake returns, so tables share them.
type bakeCache struct {
	mu       sync.Mutex
	entries  map[bakeKey]*list.Element
	lru      *list.List
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newBakeCache(capacity int) *bakeCache {
	if capacity <= 0 {
		capacity = DefaultBakeCacheCapacity
	}
	return &bakeCache{
		entries:  make(map[bakeKey]*list.Element),
		lru:      list.New(),
		capacity: capacity,
	}
}

// getOrBake returns the cached bake for key or runs create. Failed bakes
// are not cached.
//
// create runs with the lock held so concurrent tables loading the same
// font bake it once.
func (c *bakeCache) getOrBake(key bakeKey, create func() (*bakedFont, error)) (*bakedFont, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*bakeCacheEntry).value, nil
	}
	c.misses.Add(1)

	value, err := create()
	if err != nil {
		return nil, err
	}
	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*bakeCacheEntry).key)
		c.evictions.Add(1)
	}
	c.entries[key] = c.lru.PushFront(&bakeCacheEntry{key: key, value: value})
	return value, nil
}

func (c *bakeCache) clear() {
	c.mu.Lock()
	c.entries = make(map[bakeKey]*list.Element)
	c.lru.Init()
	c.mu.Unlock()
}

func (c *bakeCache) stats() CacheStats {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Len:       n,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: c.evictions.Load(),
	}
}

// CacheStats reports the shared bake cache.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

var sharedBakes = newBakeCache(DefaultBakeCacheCapacity)

// BakeCacheStats returns statistics of the builtin font bake cache.
func BakeCacheStats() CacheStats { return sharedBakes.stats() }

// ClearBakeCache drops every cached bake. Statistics are kept.
func ClearBakeCache() { sharedBakes.clear() }
