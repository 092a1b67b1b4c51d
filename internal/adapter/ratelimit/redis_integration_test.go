//go:build integration
// +build integration

package ratelimit

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_SlidingWindow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping redis limiter test: %v", err)
	}

	ctx := context.Background()
	limiter := NewRedisLimiter(client, "test:ratelimit:", 2)
	key := uuid.NewString()
	t.Cleanup(func() { _ = limiter.Reset(ctx, key) })

	first, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Positive(t, third.RetryAfter)

	require.NoError(t, limiter.Reset(ctx, key))
	again, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, again.Allowed)
}
