package timeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/lineage/internal/platform/constants"
	redisstore "github.com/taibuivan/lineage/internal/platform/redis"
)

// ErrCacheMiss is returned by [Cache.Get] when nothing is stored.
var ErrCacheMiss = errors.New("timeline: cache miss")

// Cache stores rendered timelines per person. variant distinguishes the
// override years a timeline was built with.
type Cache interface {
	Get(ctx context.Context, personID, variant string) ([]byte, error)
	Set(ctx context.Context, personID, variant string, payload []byte) error
	// Invalidate drops every variant cached for the person.
	Invalidate(ctx context.Context, personID string) error
}

// RedisCache keeps all variants of a person in one hash so they expire and
// are invalidated together.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (cache *RedisCache) key(personID string) string {
	return redisstore.Key(constants.RedisPrefixTimeline, personID)
}

func (cache *RedisCache) Get(ctx context.Context, personID, variant string) ([]byte, error) {
	payload, err := cache.client.HGet(ctx, cache.key(personID), variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("timeline: cache get: %w", err)
	}
	return payload, nil
}

func (cache *RedisCache) Set(ctx context.Context, personID, variant string, payload []byte) error {
	key := cache.key(personID)
	_, err := cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, variant, payload)
		pipe.Expire(ctx, key, cache.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("timeline: cache set: %w", err)
	}
	return nil
}

func (cache *RedisCache) Invalidate(ctx context.Context, personID string) error {
	if err := cache.client.Del(ctx, cache.key(personID)).Err(); err != nil {
		return fmt.Errorf("timeline: cache invalidate: %w", err)
	}
	return nil
}
