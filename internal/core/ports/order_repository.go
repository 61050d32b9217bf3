package ports

import (
	"context"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

type OrderMutation func(current *domain.Order) (*domain.Order, error)

type OrderRepository interface {
	List(ctx context.Context, filter OwnerFilter) ([]*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	Update(ctx context.Context, id int64, fn OrderMutation) error
	Delete(ctx context.Context, id int64) error
}
