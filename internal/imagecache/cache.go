// Package imagecache caches generated images in Redis so identical prompts are not
// sent to the image model twice.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/llm"
)

// Defaults
const (
	DefaultTTL    = 24 * time.Hour
	DefaultPrefix = "persona:image"
)

// Cache is an llm.ImageClient that serves repeated prompts from Redis.
type Cache struct {
	next   llm.ImageClient
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long cached images are kept.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithPrefix sets the Redis key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New wraps next with a Redis cache.
func New(next llm.ImageClient, client redis.UniversalClient, opts ...Option) *Cache {
	c := &Cache{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// GenerateImage returns the cached image for prompt and aspect, generating and storing it on a miss.
// Redis errors degrade to an uncached call. Failed generations are not cached.
func (c *Cache) GenerateImage(ctx context.Context, prompt string, aspect llm.AspectRatio) (string, error) {
	key := c.Key(prompt, aspect)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.logger.Debug("image cache hit", zap.String("key", key))
		return cached, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("image cache read failed", zap.String("key", key), zap.Error(err))
	}

	image, err := c.next.GenerateImage(ctx, prompt, aspect)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, image, c.ttl).Err(); err != nil {
		c.logger.Warn("image cache write failed", zap.String("key", key), zap.Error(err))
	}
	return image, nil
}

// Key returns the Redis key for a prompt and aspect ratio.
func (c *Cache) Key(prompt string, aspect llm.AspectRatio) string {
	sum := sha256.Sum256([]byte(string(aspect) + "\x00" + prompt))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}
