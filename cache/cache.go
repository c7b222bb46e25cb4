// Package cache memoizes complete aggregate search responses for a bounded
// time, keyed by normalized query text.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hanbitlee/ebookscout/models"
)

// ResultCache is safe for concurrent use. Staleness is bounded purely by
// TTL; there is no explicit invalidation. At the size ceiling the
// least-recently-used entry is evicted even when still fresh; the ceiling
// is a memory bound, not an expiry sweep.
type ResultCache struct {
	lru *expirable.LRU[string, *models.SearchResponse]
}

// New builds a cache holding at most maxEntries responses for at most ttl.
func New(maxEntries int, ttl time.Duration) *ResultCache {
	return &ResultCache{
		lru: expirable.NewLRU[string, *models.SearchResponse](maxEntries, nil, ttl),
	}
}

// Get returns the stored response for a normalized query key, or false when
// none is stored or the stored one has expired. Expired entries are dropped
// on access.
func (c *ResultCache) Get(key string) (*models.SearchResponse, bool) {
	return c.lru.Get(key)
}

// Set stores a response under a normalized query key with a fresh expiry.
func (c *ResultCache) Set(key string, response *models.SearchResponse) {
	c.lru.Add(key, response)
}

// Len reports the number of stored entries, expired ones included until
// they are reaped.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
