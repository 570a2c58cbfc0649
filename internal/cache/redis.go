package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisCache struct {
	client redis.UniversalClient
	log    *zap.Logger
}

func NewRedisCache(client redis.UniversalClient, log *zap.Logger) Cache {
	return &redisCache{
		client: client,
		log:    log.With(zap.String("cache", "redis")),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Cache get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.String("key", key), zap.Duration("ttl", ttl), zap.Error(err))
		return false
	}
	return true
}

func (c *redisCache) Delete(ctx context.Context, key string) bool {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *redisCache) Exists(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.log.Warn("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}
