package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared across server instances. Keys
// are counters under the "rate:" prefix that expire with the window.
type Redis struct {
	rdb *redis.Client
	cfg Config
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(addr, password string, db int, cfg Config) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{rdb: rdb, cfg: cfg}, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	full := "rate:" + key

	count, err := r.rdb.Incr(ctx, full).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr %q: %w", key, err)
	}
	if count == 1 {
		if err := r.rdb.Expire(ctx, full, r.cfg.Window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire %q: %w", key, err)
		}
	}
	return count <= int64(r.cfg.Max), nil
}
