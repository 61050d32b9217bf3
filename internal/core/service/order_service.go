package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// OrderCounter is notified of every created order.
type OrderCounter interface {
	OrderCreated()
}

type OrderService struct {
	repo             ports.OrderRepository
	enforceOwnership bool
	counter          OrderCounter
	now              func() time.Time
	log              zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, enforceOwnership bool, counter OrderCounter, log zerolog.Logger) *OrderService {
	return &OrderService{
		repo:             repo,
		enforceOwnership: enforceOwnership,
		counter:          counter,
		now:              time.Now,
		log:              log,
	}
}

func (s *OrderService) List(ctx context.Context, caller policy.Caller) ([]*domain.Order, error) {
	owner, err := policy.ScopeOwner(caller, s.enforceOwnership)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.OwnerFilter{UserID: owner})
}

func (s *OrderService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAccessOwned(caller, order, s.enforceOwnership); err != nil {
		return nil, err
	}
	return order, nil
}

// Create stores a new order stamped with the current server time.
func (s *OrderService) Create(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error) {
	if err := domain.ValidateAmount(in.TotalAmount); err != nil {
		return nil, err
	}
	owner, err := policy.AssignOwner(caller, in.UserID, s.enforceOwnership)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Order{
		UserID:      owner,
		TotalAmount: in.TotalAmount,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if s.counter != nil {
		s.counter.OrderCreated()
	}
	s.log.Info().Int64("order_id", created.ID).Int64("user_id", created.UserID).Str("total", created.TotalAmount.StringFixed(domain.AmountScale)).Msg("order created")
	return created, nil
}

// Update replaces the owner and total of an order; the creation time is kept.
func (s *OrderService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.OrderInput) error {
	if in.ID != id {
		return domain.ErrIDMismatch
	}
	if err := domain.ValidateAmount(in.TotalAmount); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, func(current *domain.Order) (*domain.Order, error) {
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
		return &domain.Order{
			ID:          current.ID,
			UserID:      owner,
			TotalAmount: in.TotalAmount,
			CreatedAt:   current.CreatedAt,
		}, nil
	})
}

func (s *OrderService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanAccessOwned(caller, order, s.enforceOwnership); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
