package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/journal-content-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	IDs []string `json:"ids"`
}

func newTestCache(t *testing.T) (ContentCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client, time.Minute, zerolog.Nop()), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, Key("articles", "published", "newest"), listing{IDs: []string{"a", "b"}}))
	assert.True(t, mr.Exists(keyPrefix+"articles:published:newest"))

	var got listing
	require.NoError(t, c.GetJSON(ctx, Key("articles", "published", "newest"), &got))
	assert.Equal(t, []string{"a", "b"}, got.IDs)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var got listing
	err := c.GetJSON(context.Background(), "articles:nothing", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "videos:published", listing{}))
	mr.FastForward(2 * time.Minute)

	var got listing
	assert.ErrorIs(t, c.GetJSON(ctx, "videos:published", &got), ErrMiss)
}

func TestRedisCache_InvalidatePrefix(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"articles:a", "articles:b", "articles:categories", "videos:a"} {
		require.NoError(t, c.SetJSON(ctx, key, listing{}))
	}

	require.NoError(t, c.Invalidate(ctx, "articles"))

	assert.False(t, mr.Exists(keyPrefix+"articles:a"))
	assert.False(t, mr.Exists(keyPrefix+"articles:categories"))
	assert.True(t, mr.Exists(keyPrefix+"videos:a"))
}

func TestConnect_DisabledReturnsNoop(t *testing.T) {
	c, closeFn, err := Connect(&config.RedisConfig{}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, closeFn())

	assert.IsType(t, Noop{}, c)

	var got listing
	assert.ErrorIs(t, c.GetJSON(context.Background(), "any", &got), ErrMiss)
	assert.NoError(t, c.SetJSON(context.Background(), "any", got))
	assert.NoError(t, c.Invalidate(context.Background(), "any"))
}

func TestConnect_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, closeFn, err := Connect(&config.RedisConfig{Address: mr.Addr(), CacheTTL: time.Minute}, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, c.SetJSON(context.Background(), "podcasts:published", listing{IDs: []string{"p"}}))
	assert.True(t, mr.Exists(keyPrefix+"podcasts:published"))
}
