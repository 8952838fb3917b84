package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheInvalidation(t *testing.T) {
	c := New[string, []int](Config{Name: "test", Size: 10, TTL: time.Minute})

	c.Set("mounts:123", []int{1, 2, 3})

	got, found := c.Get("mounts:123")
	assert.True(t, found)
	assert.Equal(t, []int{1, 2, 3}, got)

	c.Invalidate("mounts:123")

	got, found = c.Get("mounts:123")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](Config{Name: "test", Size: 10, TTL: time.Minute})

	stats := c.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, 0, stats.Size)

	c.Get("missing")
	stats = c.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	c.Set("present", 7)
	c.Get("present")
	stats = c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCacheExpiry(t *testing.T) {
	c := New[int, string](Config{Name: "test", Size: 10, TTL: 20 * time.Millisecond})

	c.Set(1, "one")
	time.Sleep(60 * time.Millisecond)

	_, found := c.Get(1)
	assert.False(t, found, "entry should expire after TTL")
}

func TestCacheVersionMismatchEvicts(t *testing.T) {
	c := New[string, string](Config{Name: "test", Size: 10, TTL: time.Minute})
	c.lru.Add("stale", &entry[string]{version: "0.9", value: "old"})

	_, found := c.Get("stale")

	assert.False(t, found)
	assert.Equal(t, 0, c.GetStats().Size)
}

func TestCacheClear(t *testing.T) {
	c := New[string, int](Config{Name: "test", Size: 0, TTL: time.Minute})
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	assert.Equal(t, 0, c.GetStats().Size)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("users")
	assert.Equal(t, "users", cfg.Name)
	assert.Equal(t, 1000, cfg.Size)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}
