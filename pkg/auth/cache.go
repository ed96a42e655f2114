package auth

import (
	"net/http"
	"sync"
)

// TokenCache is a concurrency-safe header cache shared by all calls on a
// client session. Reads are frequent and concurrent; writes happen only
// when a challenge retry succeeds, so the cache swaps a fresh copy under
// the lock rather than mutating in place.
type TokenCache struct {
	mu      sync.RWMutex
	headers http.Header
}

// NewTokenCache creates a cache seeded with the given headers.
func NewTokenCache(headers http.Header) *TokenCache {
	return &TokenCache{headers: cloneHeader(headers)}
}

// Get returns a copy of the cached headers.
func (c *TokenCache) Get() http.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneHeader(c.headers)
}

// Set replaces the cached headers with a copy of the given set.
func (c *TokenCache) Set(headers http.Header) {
	fresh := cloneHeader(headers)
	c.mu.Lock()
	c.headers = fresh
	c.mu.Unlock()
}
