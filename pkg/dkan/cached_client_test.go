package dkan_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient satisfies dkan.Client without a live API behind it.
type stubClient struct {
	dkan.Client
}

func newTestCachedClient(t *testing.T, config *dkan.CachedClientConfig) *dkan.CachedClient {
	t.Helper()

	client, err := dkan.NewCachedClient(stubClient{}, config)
	require.NoError(t, err)

	return client
}

func TestNewCachedClient_Validation(t *testing.T) {
	t.Parallel()

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		_, err := dkan.NewCachedClient(nil, &dkan.CachedClientConfig{Cache: dkan.NewMemoryCache(10)})
		require.Error(t, err)
		assert.ErrorIs(t, err, dkan.ErrConfigRequired)
	})

	t.Run("nil cache", func(t *testing.T) {
		t.Parallel()

		_, err := dkan.NewCachedClient(stubClient{}, &dkan.CachedClientConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, dkan.ErrCacheDisabled)
	})
}

func TestCachedClient_MountLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var mountCalls, unmountCalls int

	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
		OnMount: func(_ context.Context) error {
			mountCalls++

			return nil
		},
		OnUnmount: func(_ context.Context) error {
			unmountCalls++

			return nil
		},
	})

	// The mount hook fires only on the 0 to 1 transition
	require.NoError(t, client.Mount(ctx))
	require.NoError(t, client.Mount(ctx))
	assert.Equal(t, 1, mountCalls)
	assert.Equal(t, 2, client.MountCount())

	// The unmount hook fires only on the 1 to 0 transition
	require.NoError(t, client.Unmount(ctx))
	assert.Equal(t, 0, unmountCalls)

	require.NoError(t, client.Unmount(ctx))
	assert.Equal(t, 1, unmountCalls)
	assert.Equal(t, 0, client.MountCount())

	// Unmounting with no consumers is a no-op
	require.NoError(t, client.Unmount(ctx))
	assert.Equal(t, 1, unmountCalls)
	assert.Equal(t, 0, client.MountCount())
}

func TestCachedClient_MountHookFailureRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	hookErr := errors.New("bucket unavailable")

	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
		OnMount: func(_ context.Context) error {
			return hookErr
		},
	})

	err := client.Mount(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, 0, client.MountCount())
}

func TestCachedClient_SetAndGetCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
	})

	dataset := &dkan.Dataset{Identifier: "abc-123", Title: "Test Dataset"}

	require.NoError(t, client.SetCached(ctx, dataset, "datasets", "abc-123"))

	var got dkan.Dataset

	stale, err := client.GetCachedJSON(ctx, &got, "datasets", "abc-123")
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, "abc-123", got.Identifier)
	assert.Equal(t, "Test Dataset", got.Title)
}

func TestCachedClient_StaleEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
		Options: &dkan.CacheOptions{
			StaleTime: time.Nanosecond,
			CacheTime: time.Hour,
		},
	})

	require.NoError(t, client.SetCached(ctx, map[string]string{"k": "v"}, "key"))
	time.Sleep(time.Millisecond)

	var got map[string]string

	stale, err := client.GetCachedJSON(ctx, &got, "key")
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "v", got["k"])
}

func TestCachedClient_Prefetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
	})

	err := client.Prefetch(ctx, func(_ context.Context) (interface{}, error) {
		return []string{"a", "b"}, nil
	}, "schemas", "dataset", "items")
	require.NoError(t, err)

	var got []string

	_, err = client.GetCachedJSON(ctx, &got, "schemas", "dataset", "items")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCachedClient_PrefetchFetchError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
	})

	fetchErr := errors.New("upstream down")

	err := client.Prefetch(ctx, func(_ context.Context) (interface{}, error) {
		return nil, fetchErr
	}, "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	_, err = client.GetCached(ctx, "key")
	require.Error(t, err)
}

func TestCachedClient_InvalidateByPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
	})

	require.NoError(t, client.SetCached(ctx, "a", "datasets", "a"))
	require.NoError(t, client.SetCached(ctx, "b", "datasets", "b"))
	require.NoError(t, client.SetCached(ctx, "q", "search", "q"))

	require.NoError(t, client.Invalidate(ctx, "datasets"))

	_, err := client.GetCached(ctx, "datasets", "a")
	require.Error(t, err)

	_, err = client.GetCached(ctx, "search", "q")
	require.NoError(t, err)
}

func TestCachedClient_RemoveAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestCachedClient(t, &dkan.CachedClientConfig{
		Cache: dkan.NewMemoryCache(10),
	})

	require.NoError(t, client.SetCached(ctx, "a", "key1"))
	require.NoError(t, client.SetCached(ctx, "b", "key2"))

	require.NoError(t, client.Remove(ctx, "key1"))

	_, err := client.GetCached(ctx, "key1")
	require.Error(t, err)

	require.NoError(t, client.ClearCache(ctx))

	_, err = client.GetCached(ctx, "key2")
	require.Error(t, err)
}
