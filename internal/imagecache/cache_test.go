package imagecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/persona-studio/internal/llm"
)

type countingImages struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingImages) GenerateImage(_ context.Context, prompt string, aspect llm.AspectRatio) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "data:image/jpeg;base64," + prompt + string(aspect), nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCache_HitAvoidsUpstreamCall(t *testing.T) {
	_, client := setup(t)
	upstream := &countingImages{}
	cache := New(upstream, client)
	ctx := context.Background()

	first, err := cache.GenerateImage(ctx, "sunrise", llm.AspectWide)
	require.NoError(t, err)
	second, err := cache.GenerateImage(ctx, "sunrise", llm.AspectWide)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, upstream.calls)
}

func TestCache_KeyIncludesAspect(t *testing.T) {
	_, client := setup(t)
	upstream := &countingImages{}
	cache := New(upstream, client)
	ctx := context.Background()

	wide, err := cache.GenerateImage(ctx, "sunrise", llm.AspectWide)
	require.NoError(t, err)
	square, err := cache.GenerateImage(ctx, "sunrise", llm.AspectSquare)
	require.NoError(t, err)

	assert.NotEqual(t, wide, square)
	assert.Equal(t, 2, upstream.calls)
	assert.NotEqual(t, cache.Key("sunrise", llm.AspectWide), cache.Key("sunrise", llm.AspectSquare))
}

func TestCache_FailuresNotCached(t *testing.T) {
	mr, client := setup(t)
	upstream := &countingImages{err: errors.New("quota")}
	cache := New(upstream, client)

	_, err := cache.GenerateImage(context.Background(), "x", llm.AspectSquare)
	require.Error(t, err)
	assert.False(t, mr.Exists(cache.Key("x", llm.AspectSquare)))
}

func TestCache_TTL(t *testing.T) {
	mr, client := setup(t)
	upstream := &countingImages{}
	cache := New(upstream, client, WithTTL(time.Minute), WithPrefix("test"))
	ctx := context.Background()

	_, err := cache.GenerateImage(ctx, "x", llm.AspectSquare)
	require.NoError(t, err)
	key := cache.Key("x", llm.AspectSquare)
	assert.Contains(t, key, "test:")
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, err = cache.GenerateImage(ctx, "x", llm.AspectSquare)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCache_RedisDownFallsThrough(t *testing.T) {
	mr, client := setup(t)
	upstream := &countingImages{}
	cache := New(upstream, client)
	mr.Close()

	image, err := cache.GenerateImage(context.Background(), "x", llm.AspectSquare)
	require.NoError(t, err)
	assert.NotEmpty(t, image)
	assert.Equal(t, 1, upstream.calls)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	_, err = Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
