package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrIDMismatch         = errors.New("path id does not match body id")
	ErrOwnerRequired      = errors.New("userId is required")
	ErrInvalidAmount      = errors.New("totalAmount must be a non-negative amount with at most 2 decimal places and 18 digits")
)
