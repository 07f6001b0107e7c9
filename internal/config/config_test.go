package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" {
		t.Fatalf("server defaults: %+v", cfg)
	}
	if cfg.PageSizeDefault != 10 || cfg.PageSizeMax != 100 {
		t.Fatalf("pagination defaults: %d/%d", cfg.PageSizeDefault, cfg.PageSizeMax)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.Dev() {
		t.Fatalf("production must be the default environment")
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("missing JWT_SECRET must fail")
	}
}

func TestLoad_NormalizesValues(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("APP_ENV", "Development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q", cfg.GinMode)
	}
	if !cfg.Dev() {
		t.Fatalf("APP_ENV should be case-insensitive")
	}
}

func TestLoad_RejectsInvalidBounds(t *testing.T) {
	setRequired(t)
	t.Setenv("PAGE_SIZE_DEFAULT", "50")
	t.Setenv("PAGE_SIZE_MAX", "10")
	if _, err := Load(); err == nil {
		t.Fatalf("max < default must fail validation")
	}
}

func TestLoad_CSVAndDurations(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("JWT_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Fatalf("JWTTTL = %v", cfg.JWTTTL)
	}
}
