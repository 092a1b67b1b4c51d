package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

const (
	DefaultPerMinute = 60
	DefaultKeyPrefix = "tasks:ratelimit:"
	window           = time.Minute
)

// Sliding window over a sorted set. Returns {allowed, remaining, reset_at_ms}.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	if current < limit then
		local counter = redis.call('INCR', key .. ':seq')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':seq', expire_seconds)
		return {1, limit - current - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local reset_at = 0
	if oldest and #oldest >= 2 then
		reset_at = tonumber(oldest[2]) + window_ms
	end
	return {0, 0, reset_at}
`)

// RedisLimiter shares limits across instances through Redis.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	perMinute int
	now       func() time.Time
}

var _ ports.RateLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, keyPrefix string, perMinute int) *RedisLimiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		perMinute: perMinute,
		now:       time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (ports.RateLimitResult, error) {
	now := l.now()

	result, err := slidingWindowScript.Run(
		ctx,
		l.client,
		[]string{l.keyPrefix + key},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		l.perMinute,
		window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return ports.RateLimitResult{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(result) != 3 {
		return ports.RateLimitResult{}, fmt.Errorf("unexpected rate limit response length %d", len(result))
	}

	limitResult := ports.RateLimitResult{
		Allowed:   result[0] == 1,
		Limit:     l.perMinute,
		Remaining: int(result[1]),
	}
	if !limitResult.Allowed {
		retryAfter := window
		if result[2] > 0 {
			retryAfter = time.UnixMilli(result[2]).Sub(now)
		}
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		limitResult.RetryAfter = retryAfter
	}
	return limitResult, nil
}

// Reset clears the window for key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.keyPrefix+key, l.keyPrefix+key+":seq").Err()
}
