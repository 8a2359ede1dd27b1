package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func processWith(t *testing.T, env map[string]string) *Config {
	t.Helper()

	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	})
	if err != nil {
		t.Fatalf("failed to process config: %v", err)
	}
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := processWith(t, nil)

	if cfg.Server.GetServerAddr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected default server addr %q", cfg.Server.GetServerAddr())
	}
	if cfg.Claim.DefaultExpiryDays != 7 {
		t.Fatalf("expected default expiry of 7 days, got %d", cfg.Claim.DefaultExpiryDays)
	}
	if cfg.Claim.CodeLength != 10 {
		t.Fatalf("expected default code length 10, got %d", cfg.Claim.CodeLength)
	}
	if cfg.Auth.TokenTTLHours != 2 {
		t.Fatalf("expected default token ttl of 2h, got %d", cfg.Auth.TokenTTLHours)
	}
	if !cfg.App.IsDevelopment() {
		t.Fatalf("expected development environment by default, got %q", cfg.App.Environment)
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := processWith(t, map[string]string{
		"DB_HOST":     "db.internal",
		"DB_NAME":     "coupons",
		"DB_PASSWORD": "hunter2",
	})

	want := "host=db.internal port=5432 user=postgres password=hunter2 dbname=coupons sslmode=disable"
	if got := cfg.Database.GetDatabaseURL(); got != want {
		t.Fatalf("unexpected database url %q", got)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	cfg := processWith(t, map[string]string{"APP_ENVIRONMENT": "production"})

	if !cfg.App.IsProduction() {
		t.Fatal("expected production environment")
	}
	if cfg.App.IsDevelopment() {
		t.Fatal("production must not also report development")
	}
}
