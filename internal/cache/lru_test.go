package cache

import (
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Hour)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	c.Set("key", "value")
	got, found := c.Get("key")
	if !found || got != "value" {
		t.Errorf("Get = %q, %v", got, found)
	}

	c.Set("key", "updated")
	got, _ = c.Get("key")
	if got != "updated" {
		t.Errorf("after overwrite Get = %q", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[string](3, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")
	c.Set("key4", "value4") // evicts key1

	if _, found := c.Get("key1"); found {
		t.Error("key1 should have been evicted")
	}
	for _, key := range []string{"key2", "key3", "key4"} {
		if _, found := c.Get(key); !found {
			t.Errorf("%s should still exist", key)
		}
	}
}

func TestLRUCacheRecentUseProtectsFromEviction(t *testing.T) {
	c := NewLRUCache[string](3, time.Hour)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")
	c.Get("key1") // key1 is now most recently used
	c.Set("key4", "value4")

	if _, found := c.Get("key1"); !found {
		t.Error("recently used key1 should not be evicted")
	}
	if _, found := c.Get("key2"); found {
		t.Error("key2 should have been evicted instead")
	}
}

func TestLRUCacheTTLExpiration(t *testing.T) {
	c := NewLRUCache[string](100, 50*time.Millisecond)

	c.Set("key1", "value1")
	if _, found := c.Get("key1"); !found {
		t.Error("key1 should exist immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if _, found := c.Get("key1"); found {
		t.Error("key1 should have expired")
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	c := NewLRUCache[string](100, 50*time.Millisecond)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	time.Sleep(60 * time.Millisecond)

	if removed := c.CleanExpired(); removed != 3 {
		t.Errorf("CleanExpired = %d, want 3", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size after cleanup = %d, want 0", c.Size())
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[string](10, time.Hour)
	c.Set("key", "value")
	c.Delete("key")
	if _, found := c.Get("key"); found {
		t.Error("deleted key should be gone")
	}
	// Deleting an absent key is a no-op.
	c.Delete("key")
}

func TestManagerCleanup(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	m := NewManager()
	m.Register(c)
	m.StartCleanup(20 * time.Millisecond)
	defer m.Stop()

	c.Set("key", "value")
	time.Sleep(60 * time.Millisecond)

	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0 after periodic cleanup", c.Size())
	}
}

func TestManagerStopIdempotent(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](5, time.Minute))
	m.StartCleanup(time.Minute)

	m.Stop()
	m.Stop() // second Stop must not panic
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked when cleanup was never started")
	}
}
