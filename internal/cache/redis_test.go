package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisCache(mr.Addr()), mr
}

func TestFollowerCountRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)

	_, ok, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetFollowerCount(ctx, 1, 42))

	n, ok, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 42, n)
}

func TestBumpFollowerCount(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	// bumping an uncached counter must not invent a value
	c.BumpFollowerCount(ctx, 1, 1)
	assert.False(t, mr.Exists(c.KeyForFollowerCount(1)))

	require.NoError(t, c.SetFollowerCount(ctx, 1, 10))
	c.BumpFollowerCount(ctx, 1, 1)
	c.BumpFollowerCount(ctx, 1, -3)

	n, ok, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 8, n)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)

	require.NoError(t, c.SetFollowerCount(ctx, 1, 5))
	require.NoError(t, c.Invalidate(ctx, 1))

	_, ok, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountExpiresAndReadsRefreshTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.SetFollowerCount(ctx, 1, 5))
	key := c.KeyForFollowerCount(1)
	assert.Equal(t, countTTL, mr.TTL(key))

	// reads push the expiry out again
	mr.FastForward(30 * time.Minute)
	_, _, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, countTTL, mr.TTL(key))

	mr.FastForward(countTTL + time.Minute)
	_, ok, err := c.GetFollowerCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
