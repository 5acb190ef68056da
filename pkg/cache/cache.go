// Package cache provides an in-process TTL cache used as a read-through
// accelerator. Losing the cache never changes correctness, only latency, so
// every failure mode degrades to a miss.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses (including expired reads)",
		},
		[]string{"cache"},
	)
)

type entry struct {
	value     any
	writtenAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.writtenAt) > e.ttl
}

// Cache is a thread-safe key/value store with per-entry expiration.
// Expiry is lazy: entries are discarded on the first read past their TTL;
// there is no background sweep. Instances are constructed explicitly and
// injected where needed so tests can use isolated caches.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	name    string
	nowFunc func() time.Time // injectable clock for testing
}

// New creates an empty cache. The name labels the hit/miss metrics.
func New(name string) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		name:    name,
		nowFunc: time.Now,
	}
}

// Set stores a value under key with the given TTL, unconditionally
// overwriting any existing entry.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, writtenAt: c.nowFunc(), ttl: ttl}
}

// Get returns the value stored under key. A read past the entry's TTL
// removes the entry and reports a miss, so stale data is never returned.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		cacheMissesTotal.WithLabelValues(c.name).Inc()
		return nil, false
	}
	if e.expired(c.nowFunc()) {
		delete(c.entries, key)
		cacheMissesTotal.WithLabelValues(c.name).Inc()
		return nil, false
	}

	cacheHitsTotal.WithLabelValues(c.name).Inc()
	return e.value, true
}

// Delete removes the entry stored under key, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Size returns the number of stored entries, including ones that have
// expired but not yet been read.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Keys returns a snapshot of the stored keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
