// Package cache provides the in-process TTL caches the upstream clients sit behind.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ChocoboBot_Go/internal/metrics"
)

// SchemaVersion is the current version of cached payloads.
// Increment this when a cached struct changes shape to auto-invalidate old entries.
const SchemaVersion = "1.0"

// Config sizes a cache
type Config struct {
	Name string
	Size int
	TTL  time.Duration
}

// DefaultConfig returns the fallback sizing
func DefaultConfig(name string) Config {
	return Config{Name: name, Size: 1000, TTL: 5 * time.Minute}
}

// Stats is a point-in-time view of cache effectiveness
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

type entry[V any] struct {
	version  string
	value    V
	cachedAt time.Time
}

// TTL is an LRU cache whose entries expire after a fixed duration.
// Safe for concurrent use.
type TTL[K comparable, V any] struct {
	name   string
	lru    *expirable.LRU[K, *entry[V]]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache with the given size and TTL
func New[K comparable, V any](cfg Config) *TTL[K, V] {
	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig(cfg.Name).Size
	}
	return &TTL[K, V]{
		name: cfg.Name,
		lru:  expirable.NewLRU[K, *entry[V]](cfg.Size, nil, cfg.TTL),
	}
}

// Get returns the cached value when present, unexpired and of the current schema version
func (c *TTL[K, V]) Get(key K) (V, bool) {
	e, found := c.lru.Get(key)
	if found && e.version != SchemaVersion {
		c.lru.Remove(key)
		found = false
	}
	if !found {
		c.misses.Add(1)
		metrics.CacheLookups.WithLabelValues(c.name, metrics.ResultMiss).Inc()
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	metrics.CacheLookups.WithLabelValues(c.name, metrics.ResultHit).Inc()
	return e.value, true
}

// Set stores value under key
func (c *TTL[K, V]) Set(key K, value V) {
	c.lru.Add(key, &entry[V]{
		version:  SchemaVersion,
		value:    value,
		cachedAt: time.Now(),
	})
}

// Invalidate removes a single key
func (c *TTL[K, V]) Invalidate(key K) {
	c.lru.Remove(key)
}

// Clear removes all entries
func (c *TTL[K, V]) Clear() {
	c.lru.Purge()
}

// GetStats returns hit/miss counters and current size
func (c *TTL[K, V]) GetStats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
