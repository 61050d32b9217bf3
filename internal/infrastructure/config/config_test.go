package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const key32 = "0123456789abcdef0123456789abcdef"

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY": key32,
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWT.Issuer != "MobileShopAPI" || cfg.JWT.Audience != "MobileShopClient" {
		t.Errorf("unexpected issuer/audience %q/%q", cfg.JWT.Issuer, cfg.JWT.Audience)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Errorf("TTL = %v, want 1h", cfg.JWT.TTL)
	}
	if !cfg.Authz.EnforceOwnership {
		t.Error("ownership should be enforced by default")
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Store.Driver)
	}
	if cfg.RevocationEnabled() {
		t.Error("revocation must be off without REDIS_ADDR")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY":                 key32,
		"JWT_TTL":                 "15m",
		"STORE_DRIVER":            "sqlite",
		"SQLITE_PATH":             "/tmp/shop.db",
		"AUTHZ_ENFORCE_OWNERSHIP": "false",
		"REDIS_ADDR":              "localhost:6379",
		"SHUTDOWN_TIMEOUT":        "3s",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.JWT.TTL != 15*time.Minute {
		t.Errorf("TTL = %v", cfg.JWT.TTL)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.SQLitePath != "/tmp/shop.db" {
		t.Errorf("unexpected store %+v", cfg.Store)
	}
	if cfg.Authz.EnforceOwnership {
		t.Error("ownership enforcement should be off")
	}
	if !cfg.RevocationEnabled() {
		t.Error("revocation should be on with REDIS_ADDR")
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing key", map[string]string{}, "JWT_KEY"},
		{"short key", map[string]string{"JWT_KEY": "short"}, "JWT_KEY"},
		{"unknown driver", map[string]string{"JWT_KEY": key32, "STORE_DRIVER": "oracle"}, "STORE_DRIVER"},
		{"zero ttl", map[string]string{"JWT_KEY": key32, "JWT_TTL": "0s"}, "JWT_TTL"},
		{"bad duration", map[string]string{"JWT_KEY": key32, "JWT_TTL": "soon"}, "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q should mention %s", err, tt.want)
			}
		})
	}
}
