package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.Workers != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "coderr" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Redis.StatsCacheTTL != 30*time.Second || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected durations: %+v %+v", cfg.Auth, cfg.Redis)
	}
	if !cfg.Development() {
		t.Fatal("expected development mode")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":            "production",
		"JWT_SECRET":     "s3cret",
		"JWT_TTL":        "1h",
		"WORKERS":        "8",
		"MONGO_DB":       "marketplace",
		"ADMIN_USERNAME": "root",
		"ADMIN_PASSWORD": "pw",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.TokenTTL != time.Hour || cfg.Workers != 8 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Mongo.Database != "marketplace" || cfg.Admin.Username != "root" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret in production": {"ENV": "production"},
		"admin without password":       {"ADMIN_USERNAME": "root"},
		"no workers":                   {"WORKERS": "0"},
		"bad duration":                 {"JWT_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
