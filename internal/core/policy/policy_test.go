package policy

import (
	"errors"
	"testing"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

var (
	admin = Caller{UserID: 1, Username: "root", Role: domain.RoleAdmin, Authenticated: true}
	alice = Caller{UserID: 2, Username: "alice", Role: domain.RoleUser, Authenticated: true}
)

func TestCanListUsers(t *testing.T) {
	if err := CanListUsers(admin); err != nil {
		t.Fatalf("admin should list users, got %v", err)
	}
	if err := CanListUsers(alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for user, got %v", err)
	}
	if err := CanListUsers(Anonymous()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
}

func TestCanListUsers_UnauthenticatedAdminRoleIgnored(t *testing.T) {
	c := Caller{Role: domain.RoleAdmin}
	if err := CanListUsers(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("role without authentication must not grant access, got %v", err)
	}
}

func TestCanReadUser(t *testing.T) {
	bob := &domain.User{ID: 3, Username: "bob", Role: domain.RoleUser}
	self := &domain.User{ID: 2, Username: "alice", Role: domain.RoleUser}

	if err := CanReadUser(admin, bob); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if err := CanReadUser(alice, self); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if err := CanReadUser(alice, bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden reading another user, got %v", err)
	}
}

func TestAuthorizeUserUpdate_SelfEditCannotChangeRole(t *testing.T) {
	current := &domain.User{ID: 2, Username: "alice", PasswordHash: "h", Role: domain.RoleUser}
	incoming := &domain.User{ID: 2, Username: "alice", Role: domain.RoleAdmin}

	next, err := AuthorizeUserUpdate(alice, current, incoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Role != domain.RoleUser {
		t.Fatalf("forged role leaked through: %s", next.Role)
	}
	if next.PasswordHash != "h" {
		t.Fatalf("empty password must keep stored hash, got %q", next.PasswordHash)
	}
}

func TestAuthorizeUserUpdate_OtherUserForbidden(t *testing.T) {
	current := &domain.User{ID: 3, Username: "bob", Role: domain.RoleUser}
	incoming := &domain.User{ID: 3, Username: "bob", Role: domain.RoleUser}

	if _, err := AuthorizeUserUpdate(alice, current, incoming); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeUserUpdate_ForeignRecordWithOwnUsernameForbidden(t *testing.T) {
	current := &domain.User{ID: 3, Username: "bob", PasswordHash: "bob-hash", Role: domain.RoleAdmin}
	incoming := &domain.User{ID: 3, Username: "alice", PasswordHash: "new-hash"}

	if _, err := AuthorizeUserUpdate(alice, current, incoming); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeUserUpdate_StaleTokenForbidden(t *testing.T) {
	// same username, different account id: the token belongs to a deleted account
	current := &domain.User{ID: 7, Username: "alice", Role: domain.RoleUser}
	incoming := &domain.User{ID: 7, Username: "alice"}

	if _, err := AuthorizeUserUpdate(alice, current, incoming); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := CanReadUser(alice, current); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden reading, got %v", err)
	}
}

func TestAuthorizeUserUpdate_RenameByUserForbidden(t *testing.T) {
	current := &domain.User{ID: 2, Username: "alice", Role: domain.RoleUser}
	incoming := &domain.User{ID: 2, Username: "alicia", Role: domain.RoleUser}

	if _, err := AuthorizeUserUpdate(alice, current, incoming); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorizeUserUpdate_AdminSetsRole(t *testing.T) {
	current := &domain.User{ID: 3, Username: "bob", Role: domain.RoleUser}

	next, err := AuthorizeUserUpdate(admin, current, &domain.User{ID: 3, Username: "bob", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Role != domain.RoleAdmin {
		t.Fatalf("admin role change lost: %s", next.Role)
	}

	next, err = AuthorizeUserUpdate(admin, current, &domain.User{ID: 3, Username: "bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Role != domain.RoleUser {
		t.Fatalf("empty role should keep stored role, got %s", next.Role)
	}
}

func TestCanDeleteUser(t *testing.T) {
	if err := CanDeleteUser(admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := CanDeleteUser(alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCanAccessOwned(t *testing.T) {
	own := &domain.CartItem{ID: 10, UserID: alice.UserID}
	other := &domain.Order{ID: 11, UserID: 99}

	tests := []struct {
		name    string
		caller  Caller
		record  Owned
		enforce bool
		wantErr bool
	}{
		{"owner", alice, own, true, false},
		{"not owner", alice, other, true, true},
		{"admin", admin, other, true, false},
		{"anonymous enforced", Anonymous(), own, true, true},
		{"anonymous open", Anonymous(), other, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAccessOwned(tt.caller, tt.record, tt.enforce)
			if tt.wantErr && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAssignOwner(t *testing.T) {
	if id, err := AssignOwner(alice, 0, true); err != nil || id != alice.UserID {
		t.Fatalf("zero owner should default to caller, got %d, %v", id, err)
	}
	if _, err := AssignOwner(alice, 99, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden writing for another user, got %v", err)
	}
	if id, err := AssignOwner(admin, 99, true); err != nil || id != 99 {
		t.Fatalf("admin may write for anyone, got %d, %v", id, err)
	}
	if id, err := AssignOwner(admin, 0, true); err != nil || id != admin.UserID {
		t.Fatalf("admin zero owner should default to self, got %d, %v", id, err)
	}
	if id, err := AssignOwner(Anonymous(), 42, false); err != nil || id != 42 {
		t.Fatalf("open access keeps requested owner, got %d, %v", id, err)
	}
	if _, err := AssignOwner(Anonymous(), 0, false); !errors.Is(err, domain.ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired without caller or owner, got %v", err)
	}
	if _, err := AssignOwner(Anonymous(), 42, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous writes, got %v", err)
	}
}

func TestScopeOwner(t *testing.T) {
	if id, err := ScopeOwner(alice, true); err != nil || id != alice.UserID {
		t.Fatalf("user list should be scoped to self, got %d, %v", id, err)
	}
	if id, err := ScopeOwner(admin, true); err != nil || id != 0 {
		t.Fatalf("admin list should be unscoped, got %d, %v", id, err)
	}
	if _, err := ScopeOwner(Anonymous(), true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
