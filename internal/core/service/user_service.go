package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// UserService applies the user policy around the credential store.
type UserService struct {
	repo     ports.UserRepository
	hashCost int
	log      zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hashCost int, log zerolog.Logger) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, hashCost: hashCost, log: log}
}

func (s *UserService) List(ctx context.Context, caller policy.Caller) ([]*domain.User, error) {
	if err := policy.CanListUsers(caller); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanReadUser(caller, user); err != nil {
		s.log.Info().Str("caller", caller.Username).Int64("target_id", id).Msg("user read denied")
		return nil, err
	}
	return user, nil
}

// Update replaces the user with the given id. The id check happens before any
// store access.
func (s *UserService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.UpdateUserInput) error {
	if in.ID != id {
		return domain.ErrIDMismatch
	}

	incoming := &domain.User{ID: in.ID, Username: in.Username}
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return err
		}
		incoming.Role = r
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		incoming.PasswordHash = string(hash)
	}

	err := s.repo.Update(ctx, id, func(current *domain.User) (*domain.User, error) {
		next, err := policy.AuthorizeUserUpdate(caller, current, incoming)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("caller", caller.Username).Int64("user_id", id).Msg("user updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	if err := policy.CanDeleteUser(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("caller", caller.Username).Int64("user_id", id).Msg("user deleted")
	return nil
}
