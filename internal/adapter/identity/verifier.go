package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/domain"
	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/core/ports"
)

// Asymmetric algorithms only. "none" and HMAC are rejected by the parser.
var allowedMethods = []string{
	"RS256", "RS384", "RS512",
	"PS256", "PS384", "PS512",
	"ES256", "ES384", "ES512",
	"EdDSA",
}

// tokenClaims adds the profile claims the identity provider puts next to
// the registered ones.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type VerifierConfig struct {
	Issuer   string
	Audience string
	Leeway   time.Duration
	Now      func() time.Time
}

type Verifier struct {
	keys   ports.KeyProvider
	parser *jwt.Parser
}

var _ ports.TokenVerifier = (*Verifier)(nil)

func NewVerifier(keys ports.KeyProvider, conf VerifierConfig) *Verifier {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods(allowedMethods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(conf.Leeway),
		jwt.WithTimeFunc(now),
	}
	if conf.Issuer != "" {
		options = append(options, jwt.WithIssuer(conf.Issuer))
	}
	if conf.Audience != "" {
		options = append(options, jwt.WithAudience(conf.Audience))
	}

	return &Verifier{
		keys:   keys,
		parser: jwt.NewParser(options...),
	}
}

// Verify checks the signature against the key named by the token's kid header,
// then the registered claims. The identity is returned only when both pass.
func (v *Verifier) Verify(ctx context.Context, bearerToken string) (domain.Identity, error) {
	raw := strings.TrimSpace(bearerToken)
	if raw == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}

	claims := &tokenClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		keyID, _ := token.Header["kid"].(string)
		if keyID == "" {
			return nil, domain.ErrKeyNotFound
		}
		return v.keys.GetKey(ctx, keyID)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return domain.Identity{}, domain.ErrTokenInvalid
	}

	return domain.Identity{
		Subject:   claims.Subject,
		Email:     strings.TrimSpace(claims.Email),
		Name:      strings.TrimSpace(claims.Name),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
