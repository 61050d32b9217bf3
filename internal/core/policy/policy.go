// Package policy holds the authorization rules of the shop API.
//
// Every function is a pure decision over the caller, the target record and the
// requested operation. Nothing here touches the store; services load the
// target first and ask the policy afterwards, so "not found" always wins over
// "forbidden" for records that do not exist.
package policy

import (
	"github.com/mobileshop/shop-api/internal/core/domain"
)

// Caller is the identity a request acts as.
type Caller struct {
	UserID        int64
	Username      string
	Role          domain.Role
	Authenticated bool
}

// Anonymous is the caller of routes that require no token.
func Anonymous() Caller { return Caller{} }

func (c Caller) IsAdmin() bool { return c.Authenticated && c.Role.IsAdmin() }

// CanListUsers allows only administrators to enumerate accounts.
func CanListUsers(c Caller) error {
	if !c.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// isSelf reports whether target is the account c authenticated as. Both the
// id and the username must match, so a token outliving its account never
// matches a record created or renamed later.
func isSelf(c Caller, target *domain.User) bool {
	return c.Authenticated && c.UserID != 0 && c.UserID == target.ID && c.Username == target.Username
}

// CanReadUser allows administrators and the user themself.
func CanReadUser(c Caller, target *domain.User) error {
	if c.IsAdmin() || isSelf(c, target) {
		return nil
	}
	return domain.ErrForbidden
}

// AuthorizeUserUpdate returns the record that may be written when c replaces
// current with incoming.
//
// Non-admin callers may only replace their own record. Their role is always
// reset to the stored one and the username may not change.
func AuthorizeUserUpdate(c Caller, current, incoming *domain.User) (*domain.User, error) {
	next := *incoming
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if next.PasswordHash == "" {
		next.PasswordHash = current.PasswordHash
	}

	if c.IsAdmin() {
		if next.Role == "" {
			next.Role = current.Role
		}
		return &next, nil
	}

	if !isSelf(c, current) {
		return nil, domain.ErrForbidden
	}
	next.Role = current.Role
	if next.Username != current.Username {
		return nil, domain.ErrForbidden
	}
	return &next, nil
}

// CanDeleteUser allows only administrators.
func CanDeleteUser(c Caller) error {
	if !c.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// Owned is implemented by records that belong to a single user.
type Owned interface {
	OwnerID() int64
}

// CanAccessOwned decides access to a cart item or order. With enforce off the
// record is open to every caller.
func CanAccessOwned(c Caller, record Owned, enforce bool) error {
	if !enforce || c.IsAdmin() {
		return nil
	}
	if c.Authenticated && c.UserID != 0 && record.OwnerID() == c.UserID {
		return nil
	}
	return domain.ErrForbidden
}

// AssignOwner resolves the owner of a record being created or replaced.
// A zero owner is filled in with the caller's id. Non-admin callers may only
// write records they own.
func AssignOwner(c Caller, requested int64, enforce bool) (int64, error) {
	if requested == 0 && c.Authenticated {
		requested = c.UserID
	}
	if enforce && !c.IsAdmin() {
		if !c.Authenticated || c.UserID == 0 || requested != c.UserID {
			return 0, domain.ErrForbidden
		}
	}
	if requested == 0 {
		return 0, domain.ErrOwnerRequired
	}
	return requested, nil
}

// ScopeOwner returns the list filter owner for c; zero means every record.
func ScopeOwner(c Caller, enforce bool) (int64, error) {
	if !enforce || c.IsAdmin() {
		return 0, nil
	}
	if !c.Authenticated || c.UserID == 0 {
		return 0, domain.ErrForbidden
	}
	return c.UserID, nil
}
