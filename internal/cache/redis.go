package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ramadan-taqwim/internal/timings"
)

// redisExpiry bounds how long a month entry lives in Redis. Freshness is
// still judged by FetchedAt; the expiry only keeps dead months from
// accumulating.
const redisExpiry = 7 * 24 * time.Hour

// RedisStore is a Redis-backed month cache, useful when the serve command
// runs on several hosts sharing one cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at the given URL and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// LoadMonth reads a cached month. Returns nil on a miss or an undecodable
// value.
func (s *RedisStore) LoadMonth(ctx context.Context, key string) *timings.MonthTimings {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var mt timings.MonthTimings
	if err := json.Unmarshal(data, &mt); err != nil {
		return nil
	}

	return &mt
}

// SaveMonth writes a month under its cache key.
func (s *RedisStore) SaveMonth(ctx context.Context, mt *timings.MonthTimings) error {
	data, err := json.Marshal(mt)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := s.client.Set(ctx, mt.CacheKey, data, redisExpiry).Err(); err != nil {
		return fmt.Errorf("failed to write redis entry: %w", err)
	}

	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
