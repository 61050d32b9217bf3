package ports

import (
	"context"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

// OwnerFilter restricts list queries to a single owner. The zero value lists
// everything.
type OwnerFilter struct {
	UserID int64
}

type CartItemMutation func(current *domain.CartItem) (*domain.CartItem, error)

type CartItemRepository interface {
	List(ctx context.Context, filter OwnerFilter) ([]*domain.CartItem, error)
	FindByID(ctx context.Context, id int64) (*domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)
	Update(ctx context.Context, id int64, fn CartItemMutation) error
	Delete(ctx context.Context, id int64) error
}
