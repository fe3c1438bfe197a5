package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

const keyPrefix = "ratelimit:"

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis. Each window is one INCR'd key that expires with the window.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// RedisConfig holds connection settings for NewRedis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Limit    int
	Window   time.Duration
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.WithContext(ctx).Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return &Redis{client: client, limit: cfg.Limit, window: cfg.Window}, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	windowKey, resetAt := r.slot(key, now)

	pipe := r.client.WithContext(ctx).TxPipeline()
	incr := pipe.Incr(windowKey)
	pipe.Expire(windowKey, r.window)
	if _, err := pipe.Exec(); err != nil {
		return false, 0, fmt.Errorf("rate limit pipeline: %w", err)
	}

	return incr.Val() <= int64(r.limit), resetAt.Sub(now), nil
}

// slot names the counter for key in the window containing now and returns
// when that window ends.
func (r *Redis) slot(key string, now time.Time) (string, time.Time) {
	n := now.UnixNano() / int64(r.window)
	resetAt := time.Unix(0, (n+1)*int64(r.window))
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, n), resetAt
}

func (r *Redis) Close() error {
	return r.client.Close()
}
