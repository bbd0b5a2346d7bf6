package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier names. Requests in the same tier from the same client share a bucket.
const (
	TierDefault   = "default"
	TierExpensive = "expensive"
	TierWrite     = "write"
	TierUnlimited = "unlimited"
)

// EndpointConfig assigns a route pattern to a limit tier.
type EndpointConfig struct {
	Tier    string        // Bucket group name
	Method  string        // HTTP method; "*" matches any
	Pattern string        // Path pattern; a "*" segment matches any one segment
	Limit   int           // Requests per window; 0 means unlimited
	Window  time.Duration // Refill window
	Burst   int           // Bucket capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	expensive := getEnvInt("RATE_LIMIT_EXPENSIVE_LIMIT", 60)
	write := getEnvInt("RATE_LIMIT_WRITE_LIMIT", 120)

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTimeout:     getEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: EndpointConfigs(expensive, write),
	}
}

// DefaultEndpointConfigs returns the route tiers with their default limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(60, 120)
}

// EndpointConfigs builds the route tiers with the given per-minute limits
// for comparison and scoring work (expensive) and history writes (write).
func EndpointConfigs(expensive, write int) []EndpointConfig {
	exp := func(method, pattern string) EndpointConfig {
		return EndpointConfig{Tier: TierExpensive, Method: method, Pattern: pattern, Limit: expensive, Window: time.Minute, Burst: max(expensive/6, 1)}
	}
	wr := func(method, pattern string) EndpointConfig {
		return EndpointConfig{Tier: TierWrite, Method: method, Pattern: pattern, Limit: write, Window: time.Minute, Burst: max(write/6, 1)}
	}
	free := func(pattern string) EndpointConfig {
		return EndpointConfig{Tier: TierUnlimited, Method: "GET", Pattern: pattern}
	}

	return []EndpointConfig{
		// Diffing and scoring
		exp("POST", "/diff"),
		exp("POST", "/ats/score"),
		exp("*", "/resumes/*/versions/*/compare"),
		exp("GET", "/resumes/*/versions/*/export"),

		// History writes
		wr("POST", "/resumes/*/versions"),
		wr("PUT", "/resumes/*/current"),
		wr("POST", "/resumes/*/undo"),
		wr("POST", "/resumes/*/redo"),

		// Probes
		free("/health"),
		free("/metrics"),
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
