package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

func TestCartItemHandler_Create(t *testing.T) {
	stub := &stubCartItemService{
		createFn: func(ctx context.Context, caller policy.Caller, in ports.CartItemInput) (*domain.CartItem, error) {
			if in.UserID != 0 || in.ProductID != 10 || in.Quantity != 2 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.CartItem{ID: 4, UserID: caller.UserID, ProductID: in.ProductID, Quantity: in.Quantity}, nil
		},
	}
	c, rec := newContext(t, http.MethodPost, "/api/CartItem", `{"productId":10,"quantity":2}`)
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/CartItem/4" {
		t.Fatalf("unexpected Location %q", loc)
	}

	var resp cartItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (cartItemResponse{ID: 4, UserID: 2, ProductID: 10, Quantity: 2}) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestCartItemHandler_Create_Validation(t *testing.T) {
	handler := NewCartItemHandler(&stubCartItemService{})
	for _, body := range []string{`{"productId":10,"quantity":0}`, `{"productId":0,"quantity":1}`} {
		c, _ := newContext(t, http.MethodPost, "/api/CartItem", body)
		authenticate(c, 2, "alice", domain.RoleUser)
		if code := httpCode(handler.Create(c)); code != http.StatusUnprocessableEntity {
			t.Fatalf("body %s: expected 422, got %d", body, code)
		}
	}
}

func TestCartItemHandler_List(t *testing.T) {
	stub := &stubCartItemService{
		listFn: func(ctx context.Context, caller policy.Caller) ([]*domain.CartItem, error) {
			return []*domain.CartItem{{ID: 1, UserID: 2, ProductID: 5, Quantity: 1}}, nil
		},
	}
	c, rec := newContext(t, http.MethodGet, "/api/CartItem", "")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []cartItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ProductID != 5 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestCartItemHandler_Get_NotFound(t *testing.T) {
	stub := &stubCartItemService{
		getFn: func(ctx context.Context, caller policy.Caller, id int64) (*domain.CartItem, error) {
			return nil, domain.ErrCartItemNotFound
		},
	}
	c, _ := newContext(t, http.MethodGet, "/api/CartItem/99", "")
	withID(c, "99")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(stub).Get(c); !errors.Is(err, domain.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartItemHandler_Update(t *testing.T) {
	var got ports.CartItemInput
	stub := &stubCartItemService{
		updateFn: func(ctx context.Context, caller policy.Caller, id int64, in ports.CartItemInput) error {
			got = in
			return nil
		},
	}
	c, rec := newContext(t, http.MethodPut, "/api/CartItem/1", `{"id":1,"userId":2,"productId":5,"quantity":3}`)
	withID(c, "1")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got != (ports.CartItemInput{ID: 1, UserID: 2, ProductID: 5, Quantity: 3}) {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestCartItemHandler_Update_IDMismatch(t *testing.T) {
	c, _ := newContext(t, http.MethodPut, "/api/CartItem/1", `{"id":2,"productId":5,"quantity":3}`)
	withID(c, "1")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(&stubCartItemService{}).Update(c); !errors.Is(err, domain.ErrIDMismatch) {
		t.Fatalf("expected ErrIDMismatch, got %v", err)
	}
}

func TestCartItemHandler_Delete_Forbidden(t *testing.T) {
	stub := &stubCartItemService{
		deleteFn: func(ctx context.Context, caller policy.Caller, id int64) error {
			return domain.ErrForbidden
		},
	}
	c, _ := newContext(t, http.MethodDelete, "/api/CartItem/3", "")
	withID(c, "3")
	authenticate(c, 2, "alice", domain.RoleUser)

	if err := NewCartItemHandler(stub).Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
