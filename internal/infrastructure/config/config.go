package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// MinJWTKeyLength is the shortest HS256 key accepted, in bytes.
const MinJWTKeyLength = 32

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	JWT   JWTConfig
	Authz AuthzConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	Key      string        `env:"JWT_KEY"`
	Issuer   string        `env:"JWT_ISSUER,   default=MobileShopAPI"`
	Audience string        `env:"JWT_AUDIENCE, default=MobileShopClient"`
	TTL      time.Duration `env:"JWT_TTL,      default=1h"`
}

type AuthzConfig struct {
	PasswordHashCost int  `env:"PASSWORD_HASH_COST,      default=10"`
	EnforceOwnership bool `env:"AUTHZ_ENFORCE_OWNERSHIP, default=true"`
}

type StoreConfig struct {
	Driver          string        `env:"STORE_DRIVER,         default=postgres"`
	DatabaseURL     string        `env:"DATABASE_URL,         default=postgres://localhost:5432/mobileshop?sslmode=disable"`
	SQLitePath      string        `env:"SQLITE_PATH,          default=data/mobileshop.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=mobileshop"`
}

// RedisConfig is optional; an empty Addr disables token revocation.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB,  default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite", "mongo":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if len(c.JWT.Key) < MinJWTKeyLength {
		return fmt.Errorf("config: JWT_KEY must be at least %d bytes", MinJWTKeyLength)
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		return errors.New("config: JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	return nil
}

// RevocationEnabled reports whether a Redis server is configured.
func (c *Config) RevocationEnabled() bool { return c.Redis.Addr != "" }
