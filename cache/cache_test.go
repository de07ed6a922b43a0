package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](4)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestSetOverwrites(t *testing.T) {
	c := New[string, int](4)
	c.Set("a", 1)
	c.Set("a", 9)

	if v, _ := c.Get("a"); v != 9 {
		t.Fatalf("Get(a) = %d, want 9", v)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should be present")
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Fatalf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestDeleteAndPurge(t *testing.T) {
	c := New[string, int](4)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a still present after Delete")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Len() after Purge = %d, want 0", c.Len())
	}
	// Another Set after Purge must still work.
	c.Set("c", 3)
	if v, _ := c.Get("c"); v != 3 {
		t.Fatalf("Get(c) = %d, want 3", v)
	}
}

func TestStats(t *testing.T) {
	c := New[string, int](4)
	c.Set("a", 1)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Fatalf("Hits/Misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if s.Size != 1 || s.Capacity != 4 {
		t.Fatalf("Size/Capacity = %d/%d, want 1/4", s.Size, s.Capacity)
	}
	want := 2.0 / 3.0
	if s.HitRate < want-0.001 || s.HitRate > want+0.001 {
		t.Fatalf("HitRate = %f, want ~%f", s.HitRate, want)
	}
}

func TestDefaultCapacity(t *testing.T) {
	c := New[int, int](0)
	if c.Stats().Capacity != 128 {
		t.Fatalf("Capacity = %d, want 128", c.Stats().Capacity)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](32)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%40)
				c.Set(key, n*1000+j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Fatalf("Len() = %d exceeds capacity 32", c.Len())
	}
}
