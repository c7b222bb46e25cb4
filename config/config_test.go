package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty listen address",
			mutate: func(cfg *Config) {
				cfg.ListenAddr = ""
			},
			wantErr: "listen address",
		},
		{
			name: "zero fetch timeout",
			mutate: func(cfg *Config) {
				cfg.FetchTimeout = 0
			},
			wantErr: "fetch timeout",
		},
		{
			name: "negative cache TTL",
			mutate: func(cfg *Config) {
				cfg.CacheTTL = -time.Second
			},
			wantErr: "cache TTL",
		},
		{
			name: "zero rate budget",
			mutate: func(cfg *Config) {
				cfg.RateBudget = 0
			},
			wantErr: "rate budget",
		},
		{
			name: "zero max query length",
			mutate: func(cfg *Config) {
				cfg.MaxQueryLength = 0
			},
			wantErr: "max query length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.FetchTimeout != 6500*time.Millisecond {
		t.Fatalf("fetch timeout = %v, want 6.5s", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != 120*time.Second {
		t.Fatalf("cache TTL = %v, want 120s", cfg.CacheTTL)
	}
	if cfg.RateBudget != 20 || cfg.RateWindow != 60*time.Second {
		t.Fatalf("rate limit = %d/%v, want 20/60s", cfg.RateBudget, cfg.RateWindow)
	}
	if cfg.MaxQueryLength != 80 {
		t.Fatalf("max query length = %d, want 80", cfg.MaxQueryLength)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FETCH_TIMEOUT_MS", "1500")
	t.Setenv("RATE_LIMIT_MAX", "5")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.FetchTimeout != 1500*time.Millisecond {
		t.Fatalf("fetch timeout = %v, want 1.5s", cfg.FetchTimeout)
	}
	if cfg.RateBudget != 5 {
		t.Fatalf("rate budget = %d, want 5", cfg.RateBudget)
	}
	// Untouched values keep their defaults.
	if cfg.MaxQueryLength != 80 {
		t.Fatalf("max query length = %d, want default 80", cfg.MaxQueryLength)
	}
}

func TestFromEnvRejectsMalformed(t *testing.T) {
	t.Setenv("CACHE_TTL_MS", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for malformed CACHE_TTL_MS")
	}
}
