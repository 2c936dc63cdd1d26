package config

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

var validSecret = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("s", 64)))

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.JWT.TTL != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.JWT.TTL)
	}
	if cfg.Password.BcryptCost != 10 {
		t.Fatalf("unexpected bcrypt cost %d", cfg.Password.BcryptCost)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("unexpected driver %q", cfg.Storage.Driver)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("redis should be disabled by default")
	}
	if cfg.Admin.Username != "sudo" || cfg.Admin.Password != "" {
		t.Fatalf("unexpected admin config %+v", cfg.Admin)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.TTL != 90*time.Minute || cfg.Password.BcryptCost != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Storage.Driver != DriverMongo || !cfg.Redis.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestSigningKey(t *testing.T) {
	key, err := JWTConfig{Secret: validSecret}.SigningKey()
	if err != nil {
		t.Fatalf("SigningKey: %v", err)
	}
	if len(key) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(key))
	}

	short := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := (JWTConfig{Secret: short}).SigningKey(); err == nil {
		t.Fatalf("expected error for short key")
	}
	if _, err := (JWTConfig{Secret: "%%%not-base64%%%"}).SigningKey(); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}
