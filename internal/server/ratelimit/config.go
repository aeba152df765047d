package ratelimit

import (
	"net/http"
	"time"

	"github.com/jonathan/jd-matcher/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromConfig builds limiter settings from the rate_limit config section.
// Analysis endpoints keep their own stricter limits.
func FromConfig(cfg config.RateLimitConfig) *Config {
	whitelist := make(map[string]bool, len(cfg.Whitelist))
	for _, ip := range cfg.Whitelist {
		whitelist[ip] = true
	}
	return &Config{
		Enabled:         cfg.Enabled,
		DefaultLimit:    cfg.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    cfg.Burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       whitelist,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Embedding-backed operations
		{Path: "/api/analyze", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/draft", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/report", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},

		// Document parsing
		{Path: "/api/extract", Method: http.MethodPost, Limit: 20, Window: time.Minute, Burst: 5},

		// Payment verification
		{Path: "/api/unlock/", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 3},
	}
}
