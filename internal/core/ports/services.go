package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, caller policy.Caller, tokenID string, expiresAt time.Time) error
}

// UpdateUserInput is a full replacement of a user record. An empty Password
// keeps the stored hash; an empty Role keeps the stored role.
type UpdateUserInput struct {
	ID       int64
	Username string
	Password string
	Role     string
}

type UserService interface {
	List(ctx context.Context, caller policy.Caller) ([]*domain.User, error)
	Get(ctx context.Context, caller policy.Caller, id int64) (*domain.User, error)
	Update(ctx context.Context, caller policy.Caller, id int64, in UpdateUserInput) error
	Delete(ctx context.Context, caller policy.Caller, id int64) error
}

type CartItemInput struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
}

type CartItemService interface {
	List(ctx context.Context, caller policy.Caller) ([]*domain.CartItem, error)
	Get(ctx context.Context, caller policy.Caller, id int64) (*domain.CartItem, error)
	Create(ctx context.Context, caller policy.Caller, in CartItemInput) (*domain.CartItem, error)
	Update(ctx context.Context, caller policy.Caller, id int64, in CartItemInput) error
	Delete(ctx context.Context, caller policy.Caller, id int64) error
}

type OrderInput struct {
	ID          int64
	UserID      int64
	TotalAmount decimal.Decimal
}

type OrderService interface {
	List(ctx context.Context, caller policy.Caller) ([]*domain.Order, error)
	Get(ctx context.Context, caller policy.Caller, id int64) (*domain.Order, error)
	Create(ctx context.Context, caller policy.Caller, in OrderInput) (*domain.Order, error)
	Update(ctx context.Context, caller policy.Caller, id int64, in OrderInput) error
	Delete(ctx context.Context, caller policy.Caller, id int64) error
}
