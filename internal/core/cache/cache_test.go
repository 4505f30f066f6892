package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Total int64 `json:"total"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSON_CachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*stats, error) {
		calls++
		return &stats{Total: 7}, nil
	}

	v, err := GetOrLoadJSON(c, ctx, "stats", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Total)

	v, err = GetOrLoadJSON(c, ctx, "stats", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Total)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("whosbook:stats"))

	require.NoError(t, c.Invalidate(ctx, "stats"))
	_, err = GetOrLoadJSON(c, ctx, "stats", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoadJSON_ExpiresWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*stats, error) {
		calls++
		return &stats{Total: int64(calls)}, nil
	}
	_, err := GetOrLoadJSON(c, ctx, "k", time.Second, load)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	v, err := GetOrLoadJSON(c, ctx, "k", time.Second, load)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Total)
}

func TestGetOrLoadJSON_LoadErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoadJSON(c, context.Background(), "bad", time.Minute, func(context.Context) (*stats, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("whosbook:bad"))
}

func TestNilCacheLoadsDirectly(t *testing.T) {
	var c *Cache
	assert.Nil(t, New("", "", 0))

	v, err := GetOrLoadJSON(c, context.Background(), "x", time.Minute, func(context.Context) (*stats, error) {
		return &stats{Total: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Total)
	assert.NoError(t, c.Invalidate(context.Background(), "x"))
}

func TestGetOrLoadJSON_CorruptEntryReloads(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("whosbook:stats", "{not json"))

	calls := 0
	v, err := GetOrLoadJSON(c, context.Background(), "stats", time.Minute, func(context.Context) (*stats, error) {
		calls++
		return &stats{Total: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Total)
	assert.Equal(t, 1, calls)

	got, err := mr.Get("whosbook:stats")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3}`, got)
}
