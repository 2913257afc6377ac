package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "uno")
	got, ok := c.Get("a")
	if !ok || got != "uno" {
		t.Errorf("Get(a) = %q, %v, want uno, true", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) = true, want false")
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a so b becomes the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, -time.Second) // already expired on insert

	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, -time.Second)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if got := c.CleanExpired(); got != 5 {
		t.Errorf("CleanExpired() = %d, want 5", got)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}
