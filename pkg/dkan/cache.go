package dkan

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// CacheEntry is one cached response payload.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Stale reports whether the entry is older than the given staleness window.
func (e *CacheEntry) Stale(staleTime time.Duration) bool {
	return time.Since(e.StoredAt) > staleTime
}

// Cache is the pluggable cache backend interface.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions holds common cache policy applied by CachedClient.
type CacheOptions struct {
	// StaleTime: entries older than this are refetched even before expiry.
	StaleTime time.Duration

	// CacheTime: entries older than this are evicted entirely.
	CacheTime time.Duration
}

// DefaultCacheOptions returns the default cache policy.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		StaleTime: DefaultStaleTime,
		CacheTime: DefaultCacheTime,
	}
}

// CacheKey builds a stable cache key from an ordered tuple of parts. Parts
// are joined with "/" after replacing any embedded separator, so a key tuple
// always maps to exactly one string.
func CacheKey(parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, part := range parts {
		cleaned[i] = strings.ReplaceAll(part, "/", "~")
	}

	return strings.Join(cleaned, "/")
}

// MemoryCache is an in-memory cache with a size bound and lazy expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry, failing on missing or expired keys.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting expired entries first when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	c.entries[key] = entry

	return nil
}

// evictLocked drops expired entries, then an arbitrary entry if still full.
func (c *MemoryCache) evictLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if !entry.ExpiresAt.IsZero() && now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) >= c.maxSize {
		for key := range c.entries {
			delete(c.entries, key)

			break
		}
	}
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *MemoryCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has checks whether a live entry exists for the key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}
