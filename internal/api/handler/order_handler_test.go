package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

var orderTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestOrderHandler_Create(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error) {
			if !in.TotalAmount.Equal(decimal.RequireFromString("19.9")) {
				t.Fatalf("unexpected amount %s", in.TotalAmount)
			}
			return &domain.Order{ID: 8, UserID: caller.UserID, TotalAmount: in.TotalAmount, CreatedAt: orderTime}, nil
		},
	}
	c, rec := newContext(t, http.MethodPost, "/api/Order", `{"totalAmount":19.9}`)
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/Order/8" {
		t.Fatalf("unexpected Location %q", loc)
	}

	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalAmount != "19.90" || resp.UserID != 2 || !resp.CreatedAt.Equal(orderTime) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_Create_AmountAsString(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error) {
			return &domain.Order{ID: 1, UserID: 2, TotalAmount: in.TotalAmount, CreatedAt: orderTime}, nil
		},
	}
	c, rec := newContext(t, http.MethodPost, "/api/Order", `{"totalAmount":"5"}`)
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.TotalAmount != "5.00" {
		t.Fatalf("expected 5.00, got %s", resp.TotalAmount)
	}
}

func TestOrderHandler_Create_MissingAmount(t *testing.T) {
	c, _ := newContext(t, http.MethodPost, "/api/Order", `{"userId":2}`)
	authenticate(c, 2, "alice", domain.RoleUser)

	if code := httpCode(NewOrderHandler(&stubOrderService{}).Create(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestOrderHandler_Create_InvalidAmount(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error) {
			return nil, domain.ErrInvalidAmount
		},
	}
	c, _ := newContext(t, http.MethodPost, "/api/Order", `{"totalAmount":1.234}`)
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(stub).Create(c); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestOrderHandler_Get(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(ctx context.Context, caller policy.Caller, id int64) (*domain.Order, error) {
			return &domain.Order{ID: id, UserID: 2, TotalAmount: decimal.RequireFromString("100"), CreatedAt: orderTime}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/api/Order/3", "")
	withID(c, "3")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp orderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 3 || resp.TotalAmount != "100.00" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestOrderHandler_Update_IDMismatch(t *testing.T) {
	c, _ := newContext(t, http.MethodPut, "/api/Order/3", `{"id":4,"totalAmount":1}`)
	withID(c, "3")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(&stubOrderService{}).Update(c); !errors.Is(err, domain.ErrIDMismatch) {
		t.Fatalf("expected ErrIDMismatch, got %v", err)
	}
}

func TestOrderHandler_Update(t *testing.T) {
	var got ports.OrderInput
	stub := &stubOrderService{
		updateFn: func(ctx context.Context, caller policy.Caller, id int64, in ports.OrderInput) error {
			got = in
			return nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/api/Order/3", `{"id":3,"userId":2,"totalAmount":"42.50"}`)
	withID(c, "3")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewOrderHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.ID != 3 || got.UserID != 2 || !got.TotalAmount.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	stub := &stubOrderService{
		deleteFn: func(ctx context.Context, caller policy.Caller, id int64) error { return nil },
	}
	c, rec := newContext(t, http.MethodDelete, "/api/Order/3", "")
	withID(c, "3")
	authenticate(c, 1, "root", domain.RoleAdmin)

	if err := NewOrderHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
