// Package cache provides a small generic LRU cache used to memoize
// expensive conversions, such as value-set export.
package cache

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity LRU cache safe for concurrent use.
// Get promotes the accessed key, so all operations take the write lock.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*list.Element
	recency  *list.List
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

type slot[K comparable, V any] struct {
	key   K
	value V
}

// New returns a cache holding at most capacity entries.
// A non-positive capacity falls back to 128.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = 128
	}
	return &Cache[K, V]{
		entries:  make(map[K]*list.Element, capacity),
		recency:  list.New(),
		capacity: capacity,
	}
}

// Get returns the cached value for key, marking it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.recency.MoveToFront(el)
	return el.Value.(*slot[K, V]).value, true
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*slot[K, V]).value = value
		c.recency.MoveToFront(el)
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.recency.Back()
		if oldest != nil {
			delete(c.entries, oldest.Value.(*slot[K, V]).key)
			c.recency.Remove(oldest)
			c.evictions++
		}
	}
	c.entries[key] = c.recency.PushFront(&slot[K, V]{key: key, value: value})
}

// Delete removes key from the cache if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.recency.Remove(el)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge discards every entry. Counters are preserved.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element, c.capacity)
	c.recency.Init()
}

// Stats describes cache occupancy and hit behaviour.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a point-in-time snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:      len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
