package ports

import (
	"context"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

// UserMutation receives the stored user and returns the record to persist.
// Returning an error aborts the update without writing anything.
type UserMutation func(current *domain.User) (*domain.User, error)

// UserRepository is the credential store.
type UserRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create persists user and returns the stored record with its assigned ID.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update loads the user with the given id, applies fn and saves the result
	// as one scoped unit of work.
	Update(ctx context.Context, id int64, fn UserMutation) error
	Delete(ctx context.Context, id int64) error
}
