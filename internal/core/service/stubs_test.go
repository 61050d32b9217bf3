package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

const testKey = "0123456789abcdef0123456789abcdef"

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	writes  int
	listErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	r.writes++
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, fn ports.UserMutation) error {
	current, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	next, err := fn(cloneUser(current))
	if err != nil {
		return err
	}
	r.users[id] = cloneUser(next)
	r.writes++
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.writes++
	return nil
}

type stubCartRepo struct {
	items  map[int64]*domain.CartItem
	nextID int64
	writes int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[int64]*domain.CartItem)}
}

func (r *stubCartRepo) List(_ context.Context, f ports.OwnerFilter) ([]*domain.CartItem, error) {
	var out []*domain.CartItem
	for _, it := range r.items {
		if f.UserID != 0 && it.UserID != f.UserID {
			continue
		}
		clone := *it
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id int64) (*domain.CartItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCartItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubCartRepo) Create(_ context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	r.nextID++
	clone := *item
	clone.ID = r.nextID
	r.items[clone.ID] = &clone
	r.writes++
	out := clone
	return &out, nil
}

func (r *stubCartRepo) Update(_ context.Context, id int64, fn ports.CartItemMutation) error {
	current, ok := r.items[id]
	if !ok {
		return domain.ErrCartItemNotFound
	}
	clone := *current
	next, err := fn(&clone)
	if err != nil {
		return err
	}
	stored := *next
	r.items[id] = &stored
	r.writes++
	return nil
}

func (r *stubCartRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(r.items, id)
	r.writes++
	return nil
}

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64
	writes int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[int64]*domain.Order)}
}

func (r *stubOrderRepo) List(_ context.Context, f ports.OwnerFilter) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.nextID++
	clone := *order
	clone.ID = r.nextID
	r.orders[clone.ID] = &clone
	r.writes++
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) Update(_ context.Context, id int64, fn ports.OrderMutation) error {
	current, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	clone := *current
	next, err := fn(&clone)
	if err != nil {
		return err
	}
	stored := *next
	r.orders[id] = &stored
	r.writes++
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	r.writes++
	return nil
}

// stubRevocations is an in-memory RevocationStore.
type stubRevocations struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, until time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[id] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[id]
	return ok, nil
}
