// Package cache provides the in-process TTL cache namespaces that wrap the
// search pipeline: full responses, query embeddings, suggestions, and
// document reads. Entries expire a fixed duration after insertion; gets do
// not refresh the clock. Backed by expirable LRU, which also bounds memory
// for the capped namespaces.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
)

// Cache is a single TTL namespace. Safe for concurrent use. Stored values
// are treated as immutable: callers must not mutate what Get returns.
type Cache[V any] struct {
	lru  *expirable.LRU[string, V]
	hits *prometheus.CounterVec
	name string
	ttl  time.Duration
}

// New creates a namespace with the given TTL and entry cap (0 = unbounded).
// hits may be nil; when set it is a CounterVec with labels (cache, result).
func New[V any](name string, ttl time.Duration, maxEntries int, hits *prometheus.CounterVec) *Cache[V] {
	return &Cache[V]{
		lru:  expirable.NewLRU[string, V](maxEntries, nil, ttl),
		hits: hits,
		name: name,
		ttl:  ttl,
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if c.hits != nil {
		if ok {
			c.hits.WithLabelValues(c.name, "hit").Inc()
		} else {
			c.hits.WithLabelValues(c.name, "miss").Inc()
		}
	}
	return v, ok
}

// Set stores a value. Over-capacity eviction is the cache's problem, never
// the caller's: Set always succeeds from the caller's point of view.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Delete removes a single key.
func (c *Cache[V]) Delete(key string) {
	c.lru.Remove(key)
}

// InvalidatePattern removes every entry whose key contains substr.
// Used by the document-service invalidation hooks.
func (c *Cache[V]) InvalidatePattern(substr string) int {
	removed := 0
	for _, k := range c.lru.Keys() {
		if strings.Contains(k, substr) {
			if c.lru.Remove(k) {
				removed++
			}
		}
	}
	return removed
}

// Purge drops all entries.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// TTL returns the namespace's configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}
