package identity

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

const (
	DefaultCacheTTL     = 5 * time.Minute
	MinCacheTTL         = time.Second
	MaxCacheTTL         = time.Hour
	DefaultFetchTimeout = 10 * time.Second

	// MinMissRefreshInterval spaces out refreshes caused by unknown key ids
	// while the cache is still fresh.
	MinMissRefreshInterval = 10 * time.Second

	maxKeySetBytes = 1 << 20
	refreshKey     = "jwks"
	missRefreshKey = "jwks:miss"
)

var errNoUsableKeys = errors.New("key set has no usable signature keys")

type KeySetConfig struct {
	URL          string
	TTL          time.Duration
	FetchTimeout time.Duration
	HTTPClient   *http.Client
}

// KeySet caches the identity provider's public signing keys by key id.
// Misses and expired entries trigger a refresh; concurrent refreshes share
// a single upstream fetch.
type KeySet struct {
	url          string
	ttl          time.Duration
	fetchTimeout time.Duration
	client       *http.Client
	breaker      *gobreaker.CircuitBreaker
	group        singleflight.Group
	now          func() time.Time

	mu        sync.RWMutex
	keys            map[string]crypto.PublicKey
	fetchedAt       time.Time
	lastMissRefresh time.Time
}

var _ ports.KeyProvider = (*KeySet)(nil)

func NewKeySet(conf KeySetConfig) *KeySet {
	client := conf.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	fetchTimeout := conf.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	return &KeySet{
		url:          conf.URL,
		ttl:          boundTTL(conf.TTL),
		fetchTimeout: fetchTimeout,
		client:       client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "jwks",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		now:  time.Now,
		keys: map[string]crypto.PublicKey{},
	}
}

// WithClock replaces the time source used for TTL decisions.
func (k *KeySet) WithClock(now func() time.Time) *KeySet {
	k.now = now
	return k
}

func (k *KeySet) GetKey(ctx context.Context, keyID string) (crypto.PublicKey, error) {
	if keyID == "" {
		return nil, domain.ErrKeyNotFound
	}

	key, found, fresh := k.lookup(keyID)
	if found && fresh {
		return key, nil
	}

	refresh := k.Refresh
	if fresh {
		refresh = k.refreshOnMiss
	}
	if err := refresh(ctx); err != nil {
		zap.L().Warn("jwks refresh failed", zap.String("kid", keyID), zap.Error(err))
		return nil, domain.ErrKeyNotFound
	}

	key, found, _ = k.lookup(keyID)
	if !found {
		return nil, domain.ErrKeyNotFound
	}
	return key, nil
}

// Refresh fetches the key set and replaces the cache. The fetch itself is
// detached from ctx so that one cancelled caller does not fail the others
// waiting on it; ctx only bounds how long this caller waits.
func (k *KeySet) Refresh(ctx context.Context) error {
	return k.refresh(ctx, refreshKey, false)
}

// refreshOnMiss is used for an unknown key id while the cache is fresh. At
// most one such fetch runs per MinMissRefreshInterval; callers arriving
// together still share it.
func (k *KeySet) refreshOnMiss(ctx context.Context) error {
	return k.refresh(ctx, missRefreshKey, true)
}

func (k *KeySet) refresh(ctx context.Context, groupKey string, throttled bool) error {
	result := k.group.DoChan(groupKey, func() (any, error) {
		if throttled && !k.claimMissRefresh() {
			return nil, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), k.fetchTimeout)
		defer cancel()

		keys, err := k.breaker.Execute(func() (interface{}, error) {
			return k.fetch(fetchCtx)
		})
		if err != nil {
			return nil, err
		}

		k.store(keys.(map[string]crypto.PublicKey))
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrKeyNotFound, ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return fmt.Errorf("%w: %w", domain.ErrKeyNotFound, res.Err)
		}
		return nil
	}
}

func (k *KeySet) claimMissRefresh() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if !k.lastMissRefresh.IsZero() && now.Sub(k.lastMissRefresh) < MinMissRefreshInterval {
		return false
	}
	k.lastMissRefresh = now
	return true
}

// Len reports the number of cached keys.
func (k *KeySet) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

func (k *KeySet) lookup(keyID string) (crypto.PublicKey, bool, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	key, found := k.keys[keyID]
	fresh := !k.fetchedAt.IsZero() && k.now().Sub(k.fetchedAt) < k.ttl
	return key, found, fresh
}

func (k *KeySet) store(keys map[string]crypto.PublicKey) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = keys
	k.fetchedAt = k.now()
}

func (k *KeySet) fetch(ctx context.Context) (map[string]crypto.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, k.url)
	}

	return parseKeySet(io.LimitReader(resp.Body, maxKeySetBytes))
}

// parseKeySet keeps public signature keys and skips entries it cannot use,
// so one unsupported key type does not discard the whole set.
func parseKeySet(r io.Reader) (map[string]crypto.PublicKey, error) {
	var document struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]crypto.PublicKey, len(document.Keys))
	for _, raw := range document.Keys {
		var jwk jose.JSONWebKey
		if err := jwk.UnmarshalJSON(raw); err != nil {
			continue
		}
		if jwk.KeyID == "" || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		if !jwk.Valid() || !jwk.IsPublic() {
			continue
		}

		switch jwk.Key.(type) {
		case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey:
			keys[jwk.KeyID] = jwk.Key
		}
	}

	if len(keys) == 0 {
		return nil, errNoUsableKeys
	}
	return keys, nil
}

func boundTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl <= 0:
		return DefaultCacheTTL
	case ttl < MinCacheTTL:
		return MinCacheTTL
	case ttl > MaxCacheTTL:
		return MaxCacheTTL
	}
	return ttl
}
