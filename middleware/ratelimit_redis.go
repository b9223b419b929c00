package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duynhne/jobs-service/internal/logger"
)

// RedisRateLimiter shares fixed-window counters between service instances.
type RedisRateLimiter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisRateLimiter connects to Redis and verifies the connection.
func NewRedisRateLimiter(ctx context.Context, addr, password string, db int) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &RedisRateLimiter{
		client:  client,
		prefix:  "jobs:ratelimit:",
		timeout: 250 * time.Millisecond,
	}, nil
}

// Allow increments the caller's counter. Redis failures let the request through.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) RateDecision {
	if limit <= 0 {
		return RateDecision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	log := logger.FromContext(ctx)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Error().Err(err).Str("op", "incr").Msg("Redis rate limiter error")
		return RateDecision{Allowed: true}
	}
	if count == 1 {
		if err := rl.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			log.Error().Err(err).Str("op", "expire").Msg("Redis rate limiter error")
		}
	}
	ttl, err := rl.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return RateDecision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		WindowEnd: time.Now().Add(ttl),
	}
}

// Close releases the Redis connection pool.
func (rl *RedisRateLimiter) Close() error {
	return rl.client.Close()
}
