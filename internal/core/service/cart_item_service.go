package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// CartItemService performs cart CRUD. When enforceOwnership is set, non-admin
// callers only see and modify their own items.
type CartItemService struct {
	repo             ports.CartItemRepository
	enforceOwnership bool
	log              zerolog.Logger
}

func NewCartItemService(repo ports.CartItemRepository, enforceOwnership bool, log zerolog.Logger) *CartItemService {
	return &CartItemService{repo: repo, enforceOwnership: enforceOwnership, log: log}
}

func (s *CartItemService) List(ctx context.Context, caller policy.Caller) ([]*domain.CartItem, error) {
	owner, err := policy.ScopeOwner(caller, s.enforceOwnership)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.OwnerFilter{UserID: owner})
}

func (s *CartItemService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.CartItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccessOwned(caller, item, s.enforceOwnership); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartItemService) Create(ctx context.Context, caller policy.Caller, in ports.CartItemInput) (*domain.CartItem, error) {
	owner, err := policy.AssignOwner(caller, in.UserID, s.enforceOwnership)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.CartItem{
		UserID:    owner,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Int64("cart_item_id", created.ID).Int64("user_id", created.UserID).Msg("cart item created")
	return created, nil
}

func (s *CartItemService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.CartItemInput) error {
	if in.ID != id {
		return domain.ErrIDMismatch
	}

	return s.repo.Update(ctx, id, func(current *domain.CartItem) (*domain.CartItem, error) {
		if err := policy.CanAccessOwned(caller, current, s.enforceOwnership); err != nil {
			return nil, err
		}
		requested := in.UserID
		if requested == 0 {
			requested = current.UserID
		}
		owner, err := policy.AssignOwner(caller, requested, s.enforceOwnership)
		if err != nil {
			return nil, err
		}
		return &domain.CartItem{
			ID:        current.ID,
			UserID:    owner,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		}, nil
	})
}

func (s *CartItemService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanAccessOwned(caller, item, s.enforceOwnership); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
