package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	redis "github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	client  *redis.Client
	log     logging.Logger
	prefix  string
	timeout time.Duration
}

// NewRedis connects to Redis and returns a limiter sharing counters across
// server instances. Redis failures let the attempt through.
func NewRedis(ctx context.Context, addr, password string, db int, log logging.Logger) (Limiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &redisLimiter{
		client:  client,
		log:     log,
		prefix:  "storefront:ratelimit:",
		timeout: 250 * time.Millisecond,
	}, nil
}

func (rl *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logRedisError(ctx, "incr", err)
		return Decision{Allowed: true}
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			rl.logRedisError(ctx, "expire", err)
		}
	}
	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return Decision{
		Allowed:   int(counter) <= limit,
		Count:     int(counter),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (rl *redisLimiter) Close() {
	if rl.client != nil {
		_ = rl.client.Close()
	}
}

func (rl *redisLimiter) logRedisError(ctx context.Context, op string, err error) {
	rl.log.Error(ctx, "redis rate limiter error", "op", op, "error", err)
}
