// Package appconfig loads analyzer configuration from the environment.
package appconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	LogLevel        string
	StateRoot       string
	ParseWorkers    int
	ParseCacheTTLMs int
	MaxFileBytes    int64
}

// LoadConfig loads configuration from the environment, after merging
// any .env file in the working directory (existing variables win).
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        os.Getenv("CODESCOPE_LOG_LEVEL"),
		StateRoot:       os.Getenv("CODESCOPE_STATE_ROOT"),
		ParseWorkers:    0,       // Default value: resolved at runtime from NumCPU
		ParseCacheTTLMs: 300_000, // Default value: 5 minutes
		MaxFileBytes:    5 << 20, // Default value: 5 MiB
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StateRoot == "" {
		cfg.StateRoot = ".codescope/state"
	}

	if workersStr := os.Getenv("CODESCOPE_PARSE_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers >= 0 {
			cfg.ParseWorkers = workers
		}
	}

	if ttlStr := os.Getenv("CODESCOPE_PARSE_CACHE_TTL_MS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			cfg.ParseCacheTTLMs = ttl
		}
	}

	if maxBytesStr := os.Getenv("CODESCOPE_MAX_FILE_BYTES"); maxBytesStr != "" {
		if maxBytes, err := strconv.ParseInt(maxBytesStr, 10, 64); err == nil && maxBytes > 0 {
			cfg.MaxFileBytes = maxBytes
		}
	}

	return cfg
}
