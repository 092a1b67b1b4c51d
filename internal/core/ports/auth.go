package ports

import (
	"context"
	"crypto"
	"time"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
)

type KeyProvider interface {
	GetKey(ctx context.Context, keyID string) (crypto.PublicKey, error)
	Refresh(ctx context.Context) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) (domain.Identity, error)
}

type OwnershipAuthorizer interface {
	Authorize(pathOwnerID, verifiedSubject string) error
}

type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}
