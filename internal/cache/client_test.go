package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_SetGet(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "reply:warranty:abc", []byte("cached"), time.Minute))

	val, err := c.Get(ctx, "reply:warranty:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), val)
}

func TestMemoryClient_Miss(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_Expiry(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_Delete(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_DeleteByPrefix(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "reply:orders:a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "reply:orders:b", []byte("2"), time.Minute))
	require.NoError(t, c.Set(ctx, "reply:returns:c", []byte("3"), time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "reply:orders"))

	_, err := c.Get(ctx, "reply:orders:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "reply:orders:b")
	assert.ErrorIs(t, err, ErrCacheMiss)

	val, err := c.Get(ctx, "reply:returns:c")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
}

func TestMemoryClient_Eviction(t *testing.T) {
	c := NewMemoryClient(2)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 2*time.Minute))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 3*time.Minute))

	// The entry with the earliest expiry is evicted to make room.
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "reply:warranty:abc", CacheKey("reply", "warranty", "abc"))
}
