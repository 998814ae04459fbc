package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	return NewLRUCache[string](size, ttl).WithClock(clock.now), clock
}

func TestLRUCache_GetSet(t *testing.T) {
	c, _ := newTestCache(4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", "1")
	c.Set("a", "2")
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Fatalf("Get(a) = %q, %v; want 2", v, ok)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c, clock := newTestCache(4, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.advance(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}

	clock.advance(30 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should expire at ttl")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestLRUCache_DeletePrefixAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set(Key(1, "debts"), "x")
	c.Set(Key(1, "summary", "current"), "x")
	c.Set(Key(12, "debts"), "x")

	if removed := c.DeletePrefix(UserPrefix(1)); removed != 2 {
		t.Fatalf("DeletePrefix() = %d, want 2", removed)
	}
	if _, ok := c.Get(Key(12, "debts")); !ok {
		t.Fatal("other identity's entry must survive")
	}

	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("Size() after Purge = %d", c.Size())
	}
	c.Set("again", "ok")
	if _, ok := c.Get("again"); !ok {
		t.Fatal("cache unusable after Purge")
	}
}

func TestKey(t *testing.T) {
	if got := Key(7, "summary", "next"); got != "u7/summary/next" {
		t.Errorf("Key() = %q", got)
	}
}
