package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mobileshop/shop-api/docs"
	"github.com/mobileshop/shop-api/internal/api/handler"
	"github.com/mobileshop/shop-api/internal/api/middleware"
	"github.com/mobileshop/shop-api/internal/core/domain"
	"github.com/mobileshop/shop-api/internal/core/ports"
	"github.com/mobileshop/shop-api/pkg/logger"
)

const metricsSubsystem = "http"

// Dependencies is everything NewRouter needs to serve the API.
type Dependencies struct {
	Auth      ports.AuthService
	Users     ports.UserService
	CartItems ports.CartItemService
	Orders    ports.OrderService
	Tokens    ports.TokenValidator

	// EnforceOwnership mounts the cart and order routes behind Auth.
	EnforceOwnership bool
	// RevocationEnabled exposes POST /api/User/logout.
	RevocationEnabled bool

	// Readiness lists the dependencies pinged by GET /health/ready.
	Readiness map[string]handler.Pinger

	Log zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))
	// the logger renders errors, so the metrics middleware above sees the final status
	e.Use(requestLogger(deps.Log))

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	authMiddleware := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- User routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)

	users := e.Group("/api/User")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	if deps.RevocationEnabled {
		users.POST("/logout", authHandler.Logout, authMiddleware)
	}
	users.GET("", userHandler.List, authMiddleware, adminOnly)
	users.GET("/:id", userHandler.Get, authMiddleware)
	users.PUT("/:id", userHandler.Update, authMiddleware)
	users.DELETE("/:id", userHandler.Delete, authMiddleware, adminOnly)

	// --- Cart and order routes ---
	var owned []echo.MiddlewareFunc
	if deps.EnforceOwnership {
		owned = append(owned, authMiddleware)
	}

	cartHandler := handler.NewCartItemHandler(deps.CartItems)
	cart := e.Group("/api/CartItem", owned...)
	cart.GET("", cartHandler.List)
	cart.GET("/:id", cartHandler.Get)
	cart.POST("", cartHandler.Create)
	cart.PUT("/:id", cartHandler.Update)
	cart.DELETE("/:id", cartHandler.Delete)

	orderHandler := handler.NewOrderHandler(deps.Orders)
	orders := e.Group("/api/Order", owned...)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("", orderHandler.Create)
	orders.PUT("/:id", orderHandler.Update)
	orders.DELETE("/:id", orderHandler.Delete)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			reqLog := logger.ForRequest(log, requestFields(c, v.RequestID))
			evt := reqLog.Info()
			switch {
			case v.Status >= 500:
				evt = reqLog.Error().Err(v.Error)
			case v.Error != nil:
				evt = reqLog.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// requestFields describes the request for logging. Auth has already stored the
// caller on c by the time the logger runs.
func requestFields(c echo.Context, requestID string) logger.Request {
	r := logger.Request{ID: requestID}
	if caller := middleware.Caller(c); caller.Authenticated {
		r.UserID = caller.UserID
		r.Username = caller.Username
		r.Role = caller.Role.String()
	}
	return r
}
