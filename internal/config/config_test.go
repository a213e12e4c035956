package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DB_HOST", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected default DB host, got %s", cfg.Database.Host)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis cache should be disabled without REDIS_ADDRESS")
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("Expected 12h token TTL, got %v", cfg.Auth.TokenTTL)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("PORT", "9090")
	t.Setenv("IMPORT_BATCH_SIZE", "250")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Import.BatchSize != 250 {
		t.Errorf("Expected batch size 250, got %d", cfg.Import.BatchSize)
	}
	if cfg.Redis.CacheTTL != 30*time.Second {
		t.Errorf("Expected 30s cache TTL, got %v", cfg.Redis.CacheTTL)
	}
	if !cfg.Redis.Enabled() {
		t.Error("Redis cache should be enabled")
	}
	// Unparseable values fall back to the default
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected fallback max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     AuthConfig{TokenTTL: time.Hour},
			wantErr: "required",
		},
		{
			name:    "short secret",
			cfg:     AuthConfig{JWTSecret: "short", TokenTTL: time.Hour},
			wantErr: "at least",
		},
		{
			name:    "zero ttl",
			cfg:     AuthConfig{JWTSecret: strings.Repeat("s", 32)},
			wantErr: "TTL",
		},
		{
			name: "valid",
			cfg:  AuthConfig{JWTSecret: strings.Repeat("s", 32), TokenTTL: time.Hour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "journal", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=journal sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
