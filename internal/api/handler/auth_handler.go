package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobileshop/shop-api/internal/api/metrics"
	"github.com/mobileshop/shop-api/internal/api/middleware"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Description  The role defaults to User when omitted.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/User/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(user.Role.String()).Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/User/%d", user.ID))
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/User/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt})
}

// Logout revokes the token used for this request.
//
// @Summary      Logout
// @Tags         User
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /api/User/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, expiresAt := middleware.Token(c)
	if err := h.authService.Logout(c.Request().Context(), middleware.Caller(c), tokenID, expiresAt); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
