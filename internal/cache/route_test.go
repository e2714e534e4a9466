package cache

import (
	"sync"
	"testing"

	"routegraph/internal/domain"
)

func TestRouteCacheGetPut(t *testing.T) {
	c := NewRouteCache()
	key := RouteKey{SessionID: "s1", Version: 3}

	t.Run("miss on empty cache", func(t *testing.T) {
		if _, ok := c.Get(key); ok {
			t.Error("expected miss")
		}
	})

	t.Run("hit after put", func(t *testing.T) {
		c.Put(key, domain.Path{2, 0, 1})
		p, ok := c.Get(key)
		if !ok {
			t.Fatal("expected hit")
		}
		if len(p) != 3 || p[0] != 2 || p[1] != 0 || p[2] != 1 {
			t.Errorf("unexpected path %v", p)
		}
	})

	t.Run("new version misses", func(t *testing.T) {
		if _, ok := c.Get(RouteKey{SessionID: "s1", Version: 4}); ok {
			t.Error("expected miss for newer version")
		}
	})

	t.Run("returned path is a copy", func(t *testing.T) {
		p, _ := c.Get(key)
		p[0] = 99
		again, _ := c.Get(key)
		if again[0] != 2 {
			t.Errorf("expected cached path to be unchanged, got %v", again)
		}
	})

	t.Run("stored path is a copy", func(t *testing.T) {
		src := domain.Path{0, 1}
		k := RouteKey{SessionID: "s2", Version: 1}
		c.Put(k, src)
		src[0] = 42
		got, _ := c.Get(k)
		if got[0] != 0 {
			t.Errorf("expected cache to hold its own copy, got %v", got)
		}
	})
}

func TestRouteCacheEviction(t *testing.T) {
	c := NewRouteCacheWithCap(2)

	a := RouteKey{SessionID: "a", Version: 1}
	b := RouteKey{SessionID: "b", Version: 1}
	d := RouteKey{SessionID: "d", Version: 1}

	c.Put(a, domain.Path{0})
	c.Put(b, domain.Path{0})
	// Touch a so b becomes least recently used
	c.Get(a)
	c.Put(d, domain.Path{0})

	if _, ok := c.Get(b); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get(a); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get(d); !ok {
		t.Error("expected d to be present")
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
	if stats.Size != 2 {
		t.Errorf("expected size 2, got %d", stats.Size)
	}
}

func TestRouteCacheInvalidate(t *testing.T) {
	c := NewRouteCache()
	c.Put(RouteKey{SessionID: "s1", Version: 1}, domain.Path{0})
	c.Put(RouteKey{SessionID: "s1", Version: 2}, domain.Path{0, 1})
	c.Put(RouteKey{SessionID: "s2", Version: 1}, domain.Path{0})

	c.Invalidate("s1")

	if c.Len() != 1 {
		t.Errorf("expected 1 remaining entry, got %d", c.Len())
	}
	if _, ok := c.Get(RouteKey{SessionID: "s2", Version: 1}); !ok {
		t.Error("expected other session to be kept")
	}
}

func TestRouteCacheClear(t *testing.T) {
	c := NewRouteCache()
	c.Put(RouteKey{SessionID: "s1", Version: 1}, domain.Path{0})
	c.Get(RouteKey{SessionID: "s1", Version: 1})

	c.Clear()

	if stats := c.Stats(); stats != (Stats{}) {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}

func TestRouteCacheConcurrent(t *testing.T) {
	c := NewRouteCacheWithCap(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := RouteKey{SessionID: "s", Version: int64(i % 10)}
			c.Put(key, domain.Path{i})
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Len() > 8 {
		t.Errorf("expected at most 8 entries, got %d", c.Len())
	}
	if stats := c.Stats(); stats.Puts != 16 || stats.Gets != 16 {
		t.Errorf("expected 16 puts and gets, got %+v", stats)
	}
}
