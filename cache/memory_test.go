package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cacheTestDummy is a stand-in record type for cache tests.
type cacheTestDummy struct {
	Data string `json:"data"`
}

func TestMemoryGet_NotFound(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory[cacheTestDummy](time.Minute, 100)
	require.NoError(t, err)

	value, found, err := cache.Get(ctx, "nonexistent")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, cacheTestDummy{}, value)
}

func TestMemorySetAndGet_Success(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory[cacheTestDummy](time.Minute, 100)
	require.NoError(t, err)

	expected := cacheTestDummy{Data: "testdata"}

	err = cache.Set(ctx, "test-key", expected, time.Minute)
	require.NoError(t, err)

	value, found, err := cache.Get(ctx, "test-key")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expected, value)
}

func TestMemoryGet_EntryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory[cacheTestDummy](time.Hour, 100)
	require.NoError(t, err)

	err = cache.Set(ctx, "test-key", cacheTestDummy{Data: "short-lived"}, 30*time.Second)
	require.NoError(t, err)

	// simulate the entry's deadline passing without waiting
	cache.now = func() time.Time { return time.Now().Add(time.Minute) }

	value, found, err := cache.Get(ctx, "test-key")

	assert.NoError(t, err)
	assert.False(t, found, "entry past its own TTL must be a miss")
	assert.Equal(t, cacheTestDummy{}, value)
}

func TestMemoryInvalidate_RemovesEntry(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory[cacheTestDummy](time.Minute, 100)
	require.NoError(t, err)

	err = cache.Set(ctx, "test-key", cacheTestDummy{Data: "testdata"}, time.Minute)
	require.NoError(t, err)

	err = cache.Invalidate(ctx, "test-key")
	require.NoError(t, err)

	_, found, err := cache.Get(ctx, "test-key")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryInvalidate_MissingKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemory[cacheTestDummy](time.Minute, 100)
	require.NoError(t, err)

	assert.NoError(t, cache.Invalidate(ctx, "never-set"))
}

func TestMemoryClose(t *testing.T) {
	cache, err := NewMemory[cacheTestDummy](time.Minute, 100)
	require.NoError(t, err)

	assert.NoError(t, cache.Close())
}
