package ratelimit

import (
	"math"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern; "*" matches one segment, a trailing "/" matches any suffix
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
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig returns a configuration allowing perSecond requests per client
// with the given burst, plus the stricter limits of DefaultEndpointConfigs.
// A non-positive perSecond disables rate limiting.
func NewConfig(perSecond float64, burst int) *Config {
	if perSecond <= 0 {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    int(math.Ceil(perSecond * 60)),
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Typesetting and LLM-backed operations
		{Path: "/resume/", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/cover-letter/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/users/*/resume/pdf", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/users/*/jobs/*/fetch", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/users/*/jobs/*/interview-prep", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/leetcode/hint", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		// Write operations
		{Path: "/users/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/users/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
