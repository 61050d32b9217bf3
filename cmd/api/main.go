// @title                       MobileShop API
// @version                     1.0
// @description                 Users, cart items and orders for the MobileShop storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/mobileshop/shop-api/internal/api"
	"github.com/mobileshop/shop-api/internal/api/handler"
	"github.com/mobileshop/shop-api/internal/api/metrics"
	"github.com/mobileshop/shop-api/internal/core/ports"
	"github.com/mobileshop/shop-api/internal/core/service"
	"github.com/mobileshop/shop-api/internal/infrastructure/config"
	mongostore "github.com/mobileshop/shop-api/internal/infrastructure/db/mongo"
	redisstore "github.com/mobileshop/shop-api/internal/infrastructure/db/redis"
	"github.com/mobileshop/shop-api/internal/infrastructure/db/sqlstore"
	"github.com/mobileshop/shop-api/pkg/logger"
)

const serviceName = "shop-api"

// repositories is the storage backend selected by STORE_DRIVER.
type repositories struct {
	users     ports.UserRepository
	cartItems ports.CartItemRepository
	orders    ports.OrderRepository
	pinger    handler.Pinger
	closer    io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		Service:     serviceName,
		Environment: cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repos, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.closer.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handler.Pinger{"store": repos.pinger}

	var revoked ports.RevocationStore
	if cfg.RevocationEnabled() {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		revoked = redisstore.NewRevocationList(rdb)
		readiness["redis"] = redisstore.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("token revocation enabled")
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Key:      cfg.JWT.Key,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	}, revoked, log)
	if err != nil {
		return err
	}

	var revoker service.TokenRevoker
	if revoked != nil {
		revoker = tokens
	}

	e := api.NewRouter(api.Dependencies{
		Auth:              service.NewAuthService(repos.users, tokens, revoker, cfg.Authz.PasswordHashCost, log),
		Users:             service.NewUserService(repos.users, cfg.Authz.PasswordHashCost, log),
		CartItems:         service.NewCartItemService(repos.cartItems, cfg.Authz.EnforceOwnership, log),
		Orders:            service.NewOrderService(repos.orders, cfg.Authz.EnforceOwnership, metrics.OrderCounter{}, log),
		Tokens:            tokens,
		EnforceOwnership:  cfg.Authz.EnforceOwnership,
		RevocationEnabled: revoked != nil,
		Readiness:         readiness,
		Log:               log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &repositories{
			users:     mongostore.NewUserRepository(db),
			cartItems: mongostore.NewCartItemRepository(db),
			orders:    mongostore.NewOrderRepository(db),
			pinger:    mongostore.NewPinger(client),
			closer:    closerFunc(func() error { return client.Disconnect(context.Background()) }),
		}, nil

	default:
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver:          sqlstore.Dialect(cfg.Store.Driver),
			DSN:             cfg.Store.DatabaseURL,
			SQLitePath:      cfg.Store.SQLitePath,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		}, log)
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &repositories{
			users:     sqlstore.NewUserRepository(db),
			cartItems: sqlstore.NewCartItemRepository(db),
			orders:    sqlstore.NewOrderRepository(db),
			pinger:    db,
			closer:    db,
		}, nil
	}
}
