// Package config holds the service tunables and their environment bindings.
package config

import (
	"fmt"
	"time"
)

// Config holds every runtime tunable of the search service.
type Config struct {
	// ListenAddr is the address the API server binds, e.g. ":3199".
	ListenAddr string
	// FetchTimeout bounds each individual provider fetch.
	FetchTimeout time.Duration
	// CacheTTL bounds the staleness of cached aggregate responses.
	CacheTTL time.Duration
	// CacheMaxEntries is the result cache size ceiling.
	CacheMaxEntries int
	// RateWindow and RateBudget define the fixed-window request budget
	// applied per client.
	RateWindow time.Duration
	RateBudget int
	// RateMaxBuckets caps the number of tracked client buckets before
	// expired ones are swept.
	RateMaxBuckets int
	// MaxQueryLength is the longest accepted search query, in runes.
	MaxQueryLength int
	// MetricsAddr is the Prometheus listen address; empty disables it.
	MetricsAddr string
	UserAgent   string
	Verbose     bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":3199",
		FetchTimeout:    6500 * time.Millisecond,
		CacheTTL:        120 * time.Second,
		CacheMaxEntries: 300,
		RateWindow:      60 * time.Second,
		RateBudget:      20,
		RateMaxBuckets:  1000,
		MaxQueryLength:  80,
		MetricsAddr:     "",
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36",
		Verbose:         false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.CacheMaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("rate window must be positive")
	}
	if c.RateBudget <= 0 {
		return fmt.Errorf("rate budget must be positive")
	}
	if c.RateMaxBuckets <= 0 {
		return fmt.Errorf("rate max buckets must be positive")
	}
	if c.MaxQueryLength <= 0 {
		return fmt.Errorf("max query length must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

// FromEnv overlays recognized environment variables onto the defaults.
// Unset variables keep their defaults; malformed values are an error.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if value, ok := EnvString("PORT"); ok {
		cfg.ListenAddr = ":" + value
	}
	if value, ok, err := EnvInt("FETCH_TIMEOUT_MS"); err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT_MS: %w", err)
	} else if ok {
		cfg.FetchTimeout = time.Duration(value) * time.Millisecond
	}
	if value, ok, err := EnvInt("CACHE_TTL_MS"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_MS: %w", err)
	} else if ok {
		cfg.CacheTTL = time.Duration(value) * time.Millisecond
	}
	if value, ok, err := EnvInt("RATE_LIMIT_WINDOW_MS"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_MS: %w", err)
	} else if ok {
		cfg.RateWindow = time.Duration(value) * time.Millisecond
	}
	if value, ok, err := EnvInt("RATE_LIMIT_MAX"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	} else if ok {
		cfg.RateBudget = value
	}
	if value, ok, err := EnvInt("MAX_QUERY_LENGTH"); err != nil {
		return nil, fmt.Errorf("invalid MAX_QUERY_LENGTH: %w", err)
	} else if ok {
		cfg.MaxQueryLength = value
	}
	if value, ok := EnvString("METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}

	return cfg, nil
}
