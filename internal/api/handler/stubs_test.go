package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mobileshop/shop-api/internal/api/middleware"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// newContext builds an echo context for a JSON request. An empty body sends none.
func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withID sets the :id route parameter.
func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

// authenticate stores an identity the way the Auth middleware does.
func authenticate(c echo.Context, userID int64, username string, role domain.Role) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxUsername, username)
	c.Set(middleware.CtxRole, role)
}

// ---------------------------------------------------------------------------
// Service stubs
// ---------------------------------------------------------------------------

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, caller policy.Caller, tokenID string, expiresAt time.Time) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, caller policy.Caller, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, caller, tokenID, expiresAt)
}

type stubUserService struct {
	listFn   func(ctx context.Context, caller policy.Caller) ([]*domain.User, error)
	getFn    func(ctx context.Context, caller policy.Caller, id int64) (*domain.User, error)
	updateFn func(ctx context.Context, caller policy.Caller, id int64, in ports.UpdateUserInput) error
	deleteFn func(ctx context.Context, caller policy.Caller, id int64) error
}

func (s *stubUserService) List(ctx context.Context, caller policy.Caller) ([]*domain.User, error) {
	return s.listFn(ctx, caller)
}

func (s *stubUserService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.User, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubUserService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.UpdateUserInput) error {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

type stubCartItemService struct {
	listFn   func(ctx context.Context, caller policy.Caller) ([]*domain.CartItem, error)
	getFn    func(ctx context.Context, caller policy.Caller, id int64) (*domain.CartItem, error)
	createFn func(ctx context.Context, caller policy.Caller, in ports.CartItemInput) (*domain.CartItem, error)
	updateFn func(ctx context.Context, caller policy.Caller, id int64, in ports.CartItemInput) error
	deleteFn func(ctx context.Context, caller policy.Caller, id int64) error
}

func (s *stubCartItemService) List(ctx context.Context, caller policy.Caller) ([]*domain.CartItem, error) {
	return s.listFn(ctx, caller)
}

func (s *stubCartItemService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.CartItem, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubCartItemService) Create(ctx context.Context, caller policy.Caller, in ports.CartItemInput) (*domain.CartItem, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubCartItemService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.CartItemInput) error {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubCartItemService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

type stubOrderService struct {
	listFn   func(ctx context.Context, caller policy.Caller) ([]*domain.Order, error)
	getFn    func(ctx context.Context, caller policy.Caller, id int64) (*domain.Order, error)
	createFn func(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error)
	updateFn func(ctx context.Context, caller policy.Caller, id int64, in ports.OrderInput) error
	deleteFn func(ctx context.Context, caller policy.Caller, id int64) error
}

func (s *stubOrderService) List(ctx context.Context, caller policy.Caller) ([]*domain.Order, error) {
	return s.listFn(ctx, caller)
}

func (s *stubOrderService) Get(ctx context.Context, caller policy.Caller, id int64) (*domain.Order, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubOrderService) Create(ctx context.Context, caller policy.Caller, in ports.OrderInput) (*domain.Order, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubOrderService) Update(ctx context.Context, caller policy.Caller, id int64, in ports.OrderInput) error {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubOrderService) Delete(ctx context.Context, caller policy.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

// httpCode extracts the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
