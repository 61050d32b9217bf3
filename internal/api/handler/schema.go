package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/shop-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Users ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin User"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// updateUserRequest replaces a user. An empty password keeps the current one.
type updateUserRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin User"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// --- Cart items ---

type cartItemRequest struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity"  validate:"gt=0"`
}

type cartItemResponse struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func toCartItemResponse(it *domain.CartItem) cartItemResponse {
	return cartItemResponse{ID: it.ID, UserID: it.UserID, ProductID: it.ProductID, Quantity: it.Quantity}
}

// --- Orders ---

// orderRequest accepts totalAmount as a JSON number or string.
type orderRequest struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"userId"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required" swaggertype:"string" example:"19.90"`
}

type orderResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	TotalAmount string    `json:"totalAmount" example:"19.90"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(domain.AmountScale),
		CreatedAt:   o.CreatedAt,
	}
}
