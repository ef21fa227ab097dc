package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_PORT", "RATE_RPS", "CORS_ORIGINS", "BACKFILL_TIMEOUT", "APP_MIGRATE"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Env != "prod" || cfg.IsDev() {
		t.Errorf("Env = %q, want prod when APP_ENV is unset", cfg.Env)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.RateRPS != 100 {
		t.Errorf("RateRPS = %d", cfg.RateRPS)
	}
	if cfg.BackfillTimeout != 2*time.Second {
		t.Errorf("BackfillTimeout = %v", cfg.BackfillTimeout)
	}
	if cfg.Migrate {
		t.Error("Migrate should default to false")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadDevOptIn(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	if cfg := Load(); !cfg.IsDev() {
		t.Errorf("APP_ENV=dev not honoured: Env = %q", cfg.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("RATE_RPS", "7")
	t.Setenv("APP_MIGRATE", "true")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example ,")
	t.Setenv("WORKERS", "not-a-number")

	cfg := Load()
	if cfg.IsDev() {
		t.Error("prod config reported as dev")
	}
	if cfg.RateRPS != 7 {
		t.Errorf("RateRPS = %d, want 7", cfg.RateRPS)
	}
	if !cfg.Migrate {
		t.Error("Migrate = false, want true")
	}
	if cfg.AccessTTL != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h", cfg.AccessTTL)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want fallback 4", cfg.Workers)
	}
	want := []string{"https://shop.example", "https://admin.example"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], want[i])
		}
	}
}
