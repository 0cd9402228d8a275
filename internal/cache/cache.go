// Package cache is a thin Redis wrapper for catalog reads (agency lists,
// vehicle search pages). Availability indexes are never cached here; they are
// rebuilt from reservation rows on every query.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"carloc-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis; a nil return means the cache is disabled and all
// lookups miss.
func New(url string, ttl time.Duration) *Redis {
	opt, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("Invalid redis url, cache disabled", "error", err)
		return nil
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 3

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis ping failed, cache disabled", "error", err)
		return nil
	}

	return &Redis{client: client, ttl: ttl}
}

// Get retrieves a JSON-encoded value; false on miss or decode failure.
func (r *Redis) Get(ctx context.Context, key string, dest interface{}) bool {
	if r == nil {
		return false
	}
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a JSON-encoded value with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value interface{}) {
	if r == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	r.client.Set(ctx, key, data, r.ttl)
}

// DelPattern deletes keys matching a pattern in batches.
func (r *Redis) DelPattern(ctx context.Context, pattern string) {
	if r == nil {
		return
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	const batchSize = 100

	pipe := r.client.Pipeline()
	count := 0

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		count++

		if count >= batchSize {
			pipe.Exec(ctx)
			count = 0
		}
	}

	if count > 0 {
		pipe.Exec(ctx)
	}
}

func (r *Redis) Close() {
	if r != nil {
		r.client.Close()
	}
}
