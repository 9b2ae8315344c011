package dkan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// CacheType selects the backend holding cached API responses.
type CacheType string

const (
	// CacheTypeMemory keeps entries in this process only.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS shares entries across processes through a JetStream KV
	// bucket.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching; every read misses.
	CacheTypeNone CacheType = "none"
)

// Static cache configuration errors.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrNATSBucketRequired    = errors.New("NATS bucket name required")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig selects and configures one cache backend. Only the section
// matching Type is consulted.
type CacheConfig struct {
	Type CacheType

	// Memory applies when Type is CacheTypeMemory.
	Memory *MemoryCacheConfig

	// NATS applies when Type is CacheTypeNATS.
	NATS *NATSKVConfig

	// Options hold the staleness and expiry policy shared by all backends.
	// If nil, DefaultCacheOptions() is used.
	Options *CacheOptions
}

// MemoryCacheConfig bounds the in-process backend.
type MemoryCacheConfig struct {
	// MaxSize caps the number of retained entries before eviction.
	MaxSize int
}

// DefaultCacheConfig is a bounded in-process cache with the default staleness
// policy.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize: 1000,
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig builds the backend the config names. A nil config gets
// the in-process default.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCacheFromConfig(config.Memory)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// NewMemoryCacheFromConfig builds the in-process backend, applying the
// default size cap when config is nil.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		config = &MemoryCacheConfig{MaxSize: 1000}
	}

	return NewMemoryCache(config.MaxSize), nil
}

// NoOpCache satisfies Cache while caching nothing: writes are accepted and
// discarded, reads always miss. It lets CachedClient run with caching turned
// off without special-casing a nil cache.
type NoOpCache struct{}

// NewNoOpCache returns the disabled-cache backend.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set discards the entry.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete is a no-op.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// DeletePrefix is a no-op.
func (c *NoOpCache) DeletePrefix(ctx context.Context, prefix string) error {
	return nil
}

// Clear is a no-op.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has always reports a miss.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// NATSKVConfig configures the NATS JetStream KV cache backend.
type NATSKVConfig struct {
	// URL is the NATS server URL. Defaults to nats.DefaultURL.
	URL string

	// Bucket is the KV bucket name. Required.
	Bucket string

	// Description is used when the bucket has to be created.
	Description string

	// TTL applied to the bucket when it has to be created.
	TTL time.Duration

	// Conn reuses an existing connection instead of dialing URL.
	Conn *nats.Conn
}

// NATSKVCache stores entries in a NATS JetStream key-value bucket, so
// multiple client processes can share one cache.
type NATSKVCache struct {
	kv        nats.KeyValue
	conn      *nats.Conn
	ownedConn bool
}

// NewNATSKVCache creates a NATS KV cache, creating the bucket if it does not
// exist yet.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	if config.Bucket == "" {
		return nil, ErrNATSBucketRequired
	}

	conn := config.Conn
	ownedConn := false

	if conn == nil {
		url := config.URL
		if url == "" {
			url = nats.DefaultURL
		}

		var err error

		conn, err = nats.Connect(url)
		if err != nil {
			return nil, fmt.Errorf("connecting to NATS: %w", err)
		}

		ownedConn = true
	}

	js, err := conn.JetStream()
	if err != nil {
		if ownedConn {
			conn.Close()
		}

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      config.Bucket,
			Description: config.Description,
			TTL:         config.TTL,
		})
	}

	if err != nil {
		if ownedConn {
			conn.Close()
		}

		return nil, fmt.Errorf("opening KV bucket %s: %w", config.Bucket, err)
	}

	return &NATSKVCache{
		kv:        kv,
		conn:      conn,
		ownedConn: ownedConn,
	}, nil
}

// encodeKVKey maps cache keys onto the NATS KV key alphabet.
func encodeKVKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '/' || r == '=':
			return r
		default:
			return '_'
		}
	}, key)
}

// Get retrieves an entry from the KV bucket.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(encodeKVKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("parsing cache entry: %w", err)
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = c.kv.Delete(encodeKVKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry in the KV bucket.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.kv.Put(encodeKVKey(key), data)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}

// Delete removes an entry from the KV bucket.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Delete(encodeKVKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *NATSKVCache) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("listing cache keys: %w", err)
	}

	encoded := encodeKVKey(prefix)
	for _, key := range keys {
		if strings.HasPrefix(key, encoded) {
			_ = c.kv.Delete(key)
		}
	}

	return nil
}

// Clear removes all entries from the KV bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("listing cache keys: %w", err)
	}

	for _, key := range keys {
		_ = c.kv.Delete(key)
	}

	return nil
}

// Has checks whether a live entry exists for the key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the NATS connection if this cache owns it.
func (c *NATSKVCache) Close() {
	if c.ownedConn && c.conn != nil {
		c.conn.Close()
	}
}

// CacheBuilder assembles a CacheConfig fluently and builds the backend in one
// chain.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder starts from the in-process default.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{
			Type:    CacheTypeMemory,
			Options: DefaultCacheOptions(),
		},
	}
}

// WithType selects the backend.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType

	return b
}

// WithMemoryConfig caps the in-process backend at maxSize entries.
func (b *CacheBuilder) WithMemoryConfig(maxSize int) *CacheBuilder {
	b.config.Memory = &MemoryCacheConfig{
		MaxSize: maxSize,
	}

	return b
}

// WithNATSConfig points the NATS backend at a bucket.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config

	return b
}

// WithOptions sets the staleness and expiry policy.
func (b *CacheBuilder) WithOptions(options *CacheOptions) *CacheBuilder {
	b.config.Options = options

	return b
}

// Build constructs the configured backend.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}

// CacheChain layers caches in lookup order, typically a fast in-process cache
// in front of a shared NATS bucket. Reads stop at the first hit; writes and
// invalidations go to every layer.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain layers the given caches, first argument checked first.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{
		caches: caches,
	}
}

// Get returns the first hit, copying it into the layers in front so the next
// lookup stops earlier.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for i, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err == nil {
			for j := range i {
				_ = c.caches[j].Set(ctx, key, entry)
			}

			return entry, nil
		}
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// Set writes through to every layer, reporting the last failure.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Set(ctx, key, entry)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Delete removes the key from every layer.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Delete(ctx, key)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// DeletePrefix removes matching keys from every layer.
func (c *CacheChain) DeletePrefix(ctx context.Context, prefix string) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.DeletePrefix(ctx, prefix)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Clear empties every layer.
func (c *CacheChain) Clear(ctx context.Context) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Clear(ctx)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Has reports whether any layer holds the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}
