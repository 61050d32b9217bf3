package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// TokenRevoker is the part of TokenService needed for logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.UserRepository
	issuer   ports.TokenIssuer
	revoker  TokenRevoker
	hashCost int
	// dummyHash is compared against when the username does not exist so that
	// a failed login costs the same whether or not the account is real.
	dummyHash []byte
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer ports.TokenIssuer, revoker TokenRevoker, hashCost int, log zerolog.Logger) *AuthService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	return &AuthService{
		repo:      repo,
		issuer:    issuer,
		revoker:   revoker,
		hashCost:  hashCost,
		dummyHash: dummy,
		log:       log,
	}
}

// Register creates an account. A missing role defaults to User; an explicit
// one is preserved.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         r,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Str("role", created.Role.String()).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and issues a token carrying the stored role.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.log.Info().Str("username", username).Msg("login failed")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Info().Str("username", username).Msg("login failed")
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, caller policy.Caller, tokenID string, expiresAt time.Time) error {
	if !caller.Authenticated {
		return domain.ErrUnauthenticated
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return err
	}
	s.log.Info().Str("username", caller.Username).Msg("token revoked")
	return nil
}
