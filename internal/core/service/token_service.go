package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

const (
	defaultTokenTTL = time.Hour
	minKeyLength    = 32
)

var ErrWeakSigningKey = errors.New("jwt signing key must be at least 32 bytes")

// Claims is the payload of an access token.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	UserID   int64       `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig holds the shared secret and the fixed claims embedded in every token.
type TokenConfig struct {
	Key      string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenService issues and validates HS256 access tokens.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	revoked  ports.RevocationStore
	now      func() time.Time
	log      zerolog.Logger
}

// NewTokenService returns a TokenService. revoked may be nil, in which case
// tokens are purely stateless and stay valid until they expire.
func NewTokenService(cfg TokenConfig, revoked ports.RevocationStore, log zerolog.Logger) (*TokenService, error) {
	if len(cfg.Key) < minKeyLength {
		return nil, ErrWeakSigningKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		key:      []byte(cfg.Key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		revoked:  revoked,
		now:      time.Now,
		log:      log,
	}, nil
}

// WithClock replaces the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for user that expires one TTL from now.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		UserID:   user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate checks signature, issuer, audience, expiry and revocation. Every
// failure is reported as domain.ErrUnauthenticated.
func (s *TokenService) Validate(ctx context.Context, token string) (*ports.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil || !tkn.Valid {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	role, err := domain.ParseRole(string(claims.Role))
	if err != nil || claims.Role == "" || claims.Username == "" {
		return nil, domain.ErrUnauthenticated
	}

	if s.revoked != nil {
		if claims.ID == "" {
			return nil, domain.ErrUnauthenticated
		}
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("jti", claims.ID).Msg("revocation check failed")
			return nil, domain.ErrUnauthenticated
		}
		if revoked {
			return nil, domain.ErrUnauthenticated
		}
	}

	return &ports.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates tokenID until its natural expiry.
func (s *TokenService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil {
		return nil
	}
	if tokenID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.revoked.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke token %q: %w", tokenID, err)
	}
	return nil
}

// RevocationEnabled reports whether tokens can be invalidated before expiry.
func (s *TokenService) RevocationEnabled() bool { return s.revoked != nil }
