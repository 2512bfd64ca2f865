// Tagwise - Game Discovery and Recommendation Service
// Copyright 2026 D. Marceau (dmarceau)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmarceau/tagwise

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(50 * time.Millisecond)
	defer c.Stop()

	c.Set("key1", "value1")

	_, exists := c.Get("key1")
	if !exists {
		t.Error("expected key1 to exist immediately after set")
	}

	time.Sleep(80 * time.Millisecond)

	_, exists = c.Get("key1")
	if exists {
		t.Error("expected key1 to be expired")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	c.SetWithTTL("short", "v", 50*time.Millisecond)
	c.Set("long", "v")

	time.Sleep(80 * time.Millisecond)

	if _, exists := c.Get("short"); exists {
		t.Error("expected short-TTL entry to be expired")
	}
	if _, exists := c.Get("long"); !exists {
		t.Error("expected default-TTL entry to survive")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	c.Set("key", "first")
	c.Set("key", "second")

	value, _ := c.Get("key")
	if value != "second" {
		t.Errorf("expected second, got %v", value)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, exists := c.Get("key1"); exists {
		t.Error("expected key1 to be deleted")
	}

	// Deleting an absent key must not panic or miscount.
	c.Delete("missing")
}

func TestCacheClear(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", c.Len())
	}

	stats := c.GetStats()
	if stats.Evictions < 5 {
		t.Errorf("expected at least 5 evictions, got %d", stats.Evictions)
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	c.Set("key", "value")
	c.Get("key")     // hit
	c.Get("missing") // miss

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}

	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("hit rate = %.1f, want 50.0", rate)
	}
}

func TestCacheHitRateNoLookups(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	if rate := c.HitRate(); rate != 0.0 {
		t.Errorf("hit rate with no lookups = %.1f, want 0.0", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("expected 10 entries, got %d", c.Len())
	}
}
