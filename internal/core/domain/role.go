package domain

import "errors"

// Role is the single authorization signal carried by a user.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole maps a client-supplied role onto the closed set of roles.
// An empty string means "not supplied" and yields RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string { return string(r) }

// IsAdmin reports whether r short-circuits every authorization check.
func (r Role) IsAdmin() bool { return r == RoleAdmin }
