package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mobileshop/shop-api/internal/api/metrics"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/policy"
	"github.com/mobileshop/shop-api/internal/core/ports"
)

// Keys under which Auth stores the validated identity in the echo context.
const (
	CtxUserID         = "user_id"
	CtxUsername       = "username"
	CtxRole           = "role"
	CtxTokenID        = "token_id"
	CtxTokenExpiresAt = "token_expires_at"
)

// Auth validates the bearer token and injects the identity into the context.
// Every failure is reported as domain.ErrUnauthenticated.
func Auth(validator ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrUnauthenticated
			}

			id, err := validator.Validate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrUnauthenticated
			}
			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()

			c.Set(CtxUserID, id.UserID)
			c.Set(CtxUsername, id.Username)
			c.Set(CtxRole, id.Role)
			c.Set(CtxTokenID, id.TokenID)
			c.Set(CtxTokenExpiresAt, id.ExpiresAt)

			return next(c)
		}
	}
}

// Caller returns the identity Auth stored in c, or the anonymous caller on
// routes that run without Auth.
func Caller(c echo.Context) policy.Caller {
	role, ok := c.Get(CtxRole).(domain.Role)
	if !ok {
		return policy.Anonymous()
	}
	userID, _ := c.Get(CtxUserID).(int64)
	username, _ := c.Get(CtxUsername).(string)
	return policy.Caller{UserID: userID, Username: username, Role: role, Authenticated: true}
}

// Token returns the id and expiry of the token the request authenticated with.
func Token(c echo.Context) (string, time.Time) {
	id, _ := c.Get(CtxTokenID).(string)
	exp, _ := c.Get(CtxTokenExpiresAt).(time.Time)
	return id, exp
}
