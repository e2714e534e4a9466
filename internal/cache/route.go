package cache

import (
	"container/list"
	"sync"

	"routegraph/internal/domain"
)

// defaultRouteCapacity is the default number of optimized paths the cache
// will hold. Use NewRouteCacheWithCap for a custom size.
const defaultRouteCapacity = 1024

// RouteKey identifies an optimized path. Version is the session's graph
// version, so any insertion or import makes older entries unreachable.
type RouteKey struct {
	SessionID string
	Version   int64
}

type routeEntry struct {
	key RouteKey
	val domain.Path
}

// RouteCache is a bounded LRU cache of optimized paths.
// It's safe for concurrent use.
type RouteCache struct {
	mu       sync.Mutex
	m        map[RouteKey]*list.Element
	ll       *list.List
	capacity int
	// stats
	puts      int
	gets      int
	hits      int
	evictions int
}

// NewRouteCache returns an LRU route cache with the default capacity.
func NewRouteCache() *RouteCache {
	return NewRouteCacheWithCap(defaultRouteCapacity)
}

// NewRouteCacheWithCap returns an LRU route cache with the provided capacity.
// Non-positive capacities fall back to the default.
func NewRouteCacheWithCap(capacity int) *RouteCache {
	if capacity <= 0 {
		capacity = defaultRouteCapacity
	}
	return &RouteCache{
		m:        make(map[RouteKey]*list.Element, capacity),
		ll:       list.New(),
		capacity: capacity,
	}
}

// Get returns a copy of the cached path for key, and true if it was found.
// It updates LRU position on hit.
func (c *RouteCache) Get(key RouteKey) (domain.Path, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if el, ok := c.m[key]; ok {
		c.hits++
		c.ll.MoveToFront(el)
		return clonePath(el.Value.(routeEntry).val), true
	}
	return nil, false
}

// Put stores a copy of p. If insertion causes the cache to exceed capacity,
// the least-recently-used entry is evicted.
func (c *RouteCache) Put(key RouteKey, p domain.Path) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.puts++
	if el, ok := c.m[key]; ok {
		el.Value = routeEntry{key: key, val: clonePath(p)}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(routeEntry{key: key, val: clonePath(p)})
	c.m[key] = el

	if c.ll.Len() > c.capacity {
		if tail := c.ll.Back(); tail != nil {
			delete(c.m, tail.Value.(routeEntry).key)
			c.ll.Remove(tail)
			c.evictions++
		}
	}
}

// Invalidate removes every entry belonging to sessionID.
func (c *RouteCache) Invalidate(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.m {
		if key.SessionID == sessionID {
			delete(c.m, key)
			c.ll.Remove(el)
		}
	}
}

// Clear fully resets the cache and stats.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[RouteKey]*list.Element, c.capacity)
	c.ll.Init()
	c.puts, c.gets, c.hits, c.evictions = 0, 0, 0, 0
}

// Len returns the number of cached paths
func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats is a snapshot of cache counters
type Stats struct {
	Gets      int `json:"gets"`
	Hits      int `json:"hits"`
	Puts      int `json:"puts"`
	Evictions int `json:"evictions"`
	Size      int `json:"size"`
}

// Stats returns the counters, snapshot under lock.
func (c *RouteCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Gets:      c.gets,
		Hits:      c.hits,
		Puts:      c.puts,
		Evictions: c.evictions,
		Size:      c.ll.Len(),
	}
}

func clonePath(p domain.Path) domain.Path {
	if p == nil {
		return nil
	}
	return append(domain.Path(make([]int, 0, len(p))), p...)
}
