package ports

import (
	"context"
	"time"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

// Identity is what a validated token proves about the caller.
type Identity struct {
	UserID    int64
	Username  string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// RevocationStore keeps the ids of tokens invalidated before their expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
