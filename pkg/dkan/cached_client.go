package dkan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// CachedClientConfig configures a CachedClient.
type CachedClientConfig struct {
	// Cache is the backend holding cached responses. Required.
	Cache Cache

	// Options controls staleness and expiry. If nil, DefaultCacheOptions()
	// is used.
	Options *CacheOptions

	// OnMount runs when the first consumer mounts (0 to 1 transition).
	OnMount func(ctx context.Context) error

	// OnUnmount runs when the last consumer unmounts (1 to 0 transition).
	OnUnmount func(ctx context.Context) error
}

// CachedClient wraps a Client with a shared cache lifecycle. Every API method
// delegates 1:1 to the underlying client; the wrapper owns only the mount
// reference count, cache key translation, and the cache pass-throughs.
type CachedClient struct {
	Client

	cache     Cache
	options   *CacheOptions
	onMount   func(ctx context.Context) error
	onUnmount func(ctx context.Context) error

	mu     sync.Mutex
	mounts int
}

// NewCachedClient wraps client with the given cache configuration.
func NewCachedClient(client Client, config *CachedClientConfig) (*CachedClient, error) {
	if client == nil {
		return nil, ErrConfigRequired
	}

	if config == nil || config.Cache == nil {
		return nil, ErrCacheDisabled
	}

	options := config.Options
	if options == nil {
		options = DefaultCacheOptions()
	}

	return &CachedClient{
		Client:    client,
		cache:     config.Cache,
		options:   options,
		onMount:   config.OnMount,
		onUnmount: config.OnUnmount,
	}, nil
}

// Mount registers a consumer. The mount hook runs only when the count moves
// from zero to one.
func (c *CachedClient) Mount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mounts++

	if c.mounts == 1 && c.onMount != nil {
		err := c.onMount(ctx)
		if err != nil {
			c.mounts--

			return fmt.Errorf("mounting cache: %w", err)
		}
	}

	return nil
}

// Unmount releases a consumer. The unmount hook runs only when the count
// moves from one to zero. Unmounting with no consumers is a no-op.
func (c *CachedClient) Unmount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mounts == 0 {
		return nil
	}

	c.mounts--

	if c.mounts == 0 && c.onUnmount != nil {
		err := c.onUnmount(ctx)
		if err != nil {
			return fmt.Errorf("unmounting cache: %w", err)
		}
	}

	return nil
}

// MountCount returns the current number of mounted consumers.
func (c *CachedClient) MountCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mounts
}

// Prefetch runs fetch and stores its JSON encoding under the key tuple.
func (c *CachedClient) Prefetch(ctx context.Context, fetch func(ctx context.Context) (interface{}, error), keyParts ...string) error {
	value, err := fetch(ctx)
	if err != nil {
		return err
	}

	return c.SetCached(ctx, value, keyParts...)
}

// GetCached retrieves the entry stored under the key tuple.
func (c *CachedClient) GetCached(ctx context.Context, keyParts ...string) (*CacheEntry, error) {
	return c.cache.Get(ctx, CacheKey(keyParts...))
}

// GetCachedJSON retrieves the entry under the key tuple and decodes it into
// out. Callers should treat a stale result as a hint to refetch.
func (c *CachedClient) GetCachedJSON(ctx context.Context, out interface{}, keyParts ...string) (stale bool, err error) {
	entry, err := c.GetCached(ctx, keyParts...)
	if err != nil {
		return false, err
	}

	err = json.Unmarshal(entry.Data, out)
	if err != nil {
		return false, fmt.Errorf("parsing cached value: %w", err)
	}

	return entry.Stale(c.options.StaleTime), nil
}

// SetCached stores the JSON encoding of value under the key tuple.
func (c *CachedClient) SetCached(ctx context.Context, value interface{}, keyParts ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cached value: %w", err)
	}

	now := time.Now()
	entry := &CacheEntry{
		Data:      data,
		StoredAt:  now,
		ExpiresAt: now.Add(c.options.CacheTime),
	}

	return c.cache.Set(ctx, CacheKey(keyParts...), entry)
}

// Invalidate removes every entry whose key starts with the prefix tuple.
func (c *CachedClient) Invalidate(ctx context.Context, prefixParts ...string) error {
	return c.cache.DeletePrefix(ctx, CacheKey(prefixParts...))
}

// Remove deletes the entry stored under the key tuple.
func (c *CachedClient) Remove(ctx context.Context, keyParts ...string) error {
	return c.cache.Delete(ctx, CacheKey(keyParts...))
}

// ClearCache removes every cached entry.
func (c *CachedClient) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}
