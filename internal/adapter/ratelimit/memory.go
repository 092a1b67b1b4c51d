package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

const idleBucketTTL = 5 * time.Minute

// MemoryLimiter keeps one token bucket per key in process memory. It is used
// when no Redis address is configured, so limits are per instance.
type MemoryLimiter struct {
	perMinute int
	now       func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute <= 0 {
		perMinute = DefaultPerMinute
	}
	return &MemoryLimiter{
		perMinute: perMinute,
		now:       time.Now,
		buckets:   map[string]*bucket{},
	}
}

func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	m.now = now
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (ports.RateLimitResult, error) {
	now := m.now()
	limiter := m.bucketFor(key, now)

	reservation := limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); !reservation.OK() || delay > 0 {
		reservation.CancelAt(now)
		return ports.RateLimitResult{
			Allowed:    false,
			Limit:      m.perMinute,
			Remaining:  0,
			RetryAfter: delay,
		}, nil
	}

	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateLimitResult{
		Allowed:   true,
		Limit:     m.perMinute,
		Remaining: remaining,
	}, nil
}

func (m *MemoryLimiter) bucketFor(key string, now time.Time) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > idleBucketTTL {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > idleBucketTTL {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.perMinute)), m.perMinute),
		}
		m.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
