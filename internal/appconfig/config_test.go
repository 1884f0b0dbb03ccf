package appconfig

import (
	"os"
	"testing"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := LoadConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.StateRoot != ".codescope/state" {
		t.Errorf("Expected StateRoot '.codescope/state', got '%s'", cfg.StateRoot)
	}
	if cfg.ParseWorkers != 0 {
		t.Errorf("Expected ParseWorkers 0, got %d", cfg.ParseWorkers)
	}
	if cfg.ParseCacheTTLMs != 300_000 {
		t.Errorf("Expected ParseCacheTTLMs 300000, got %d", cfg.ParseCacheTTLMs)
	}
	if cfg.MaxFileBytes != 5<<20 {
		t.Errorf("Expected MaxFileBytes 5MiB, got %d", cfg.MaxFileBytes)
	}
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CODESCOPE_LOG_LEVEL", "debug")
	os.Setenv("CODESCOPE_STATE_ROOT", "/tmp/codescope-state")
	os.Setenv("CODESCOPE_PARSE_WORKERS", "4")
	os.Setenv("CODESCOPE_PARSE_CACHE_TTL_MS", "60000")
	os.Setenv("CODESCOPE_MAX_FILE_BYTES", "1048576")

	cfg := LoadConfig()

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.StateRoot != "/tmp/codescope-state" {
		t.Errorf("Expected StateRoot override, got '%s'", cfg.StateRoot)
	}
	if cfg.ParseWorkers != 4 {
		t.Errorf("Expected ParseWorkers 4, got %d", cfg.ParseWorkers)
	}
	if cfg.ParseCacheTTLMs != 60000 {
		t.Errorf("Expected ParseCacheTTLMs 60000, got %d", cfg.ParseCacheTTLMs)
	}
	if cfg.MaxFileBytes != 1048576 {
		t.Errorf("Expected MaxFileBytes 1048576, got %d", cfg.MaxFileBytes)
	}
}

func TestLoadConfig_InvalidIntegerValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CODESCOPE_PARSE_WORKERS", "invalid")
	os.Setenv("CODESCOPE_PARSE_CACHE_TTL_MS", "not-a-number")
	os.Setenv("CODESCOPE_MAX_FILE_BYTES", "abc")

	cfg := LoadConfig()

	if cfg.ParseWorkers != 0 {
		t.Errorf("Expected ParseWorkers 0 (default), got %d", cfg.ParseWorkers)
	}
	if cfg.ParseCacheTTLMs != 300_000 {
		t.Errorf("Expected ParseCacheTTLMs default, got %d", cfg.ParseCacheTTLMs)
	}
	if cfg.MaxFileBytes != 5<<20 {
		t.Errorf("Expected MaxFileBytes default, got %d", cfg.MaxFileBytes)
	}
}

func TestLoadConfig_NegativeAndZeroValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CODESCOPE_PARSE_WORKERS", "-1")
	os.Setenv("CODESCOPE_PARSE_CACHE_TTL_MS", "-10")
	os.Setenv("CODESCOPE_MAX_FILE_BYTES", "0")

	cfg := LoadConfig()

	// ParseWorkers accepts 0 but not negative values.
	if cfg.ParseWorkers != 0 {
		t.Errorf("Expected ParseWorkers 0 (default for negative), got %d", cfg.ParseWorkers)
	}
	if cfg.ParseCacheTTLMs != 300_000 {
		t.Errorf("Expected ParseCacheTTLMs default for non-positive, got %d", cfg.ParseCacheTTLMs)
	}
	if cfg.MaxFileBytes != 5<<20 {
		t.Errorf("Expected MaxFileBytes default for non-positive, got %d", cfg.MaxFileBytes)
	}
}

func TestLoadConfig_EmptyStringValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("CODESCOPE_LOG_LEVEL", "")
	os.Setenv("CODESCOPE_STATE_ROOT", "")

	cfg := LoadConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel 'info' (default for empty), got '%s'", cfg.LogLevel)
	}
	if cfg.StateRoot != ".codescope/state" {
		t.Errorf("Expected StateRoot default for empty, got '%s'", cfg.StateRoot)
	}
}

func clearConfigEnvVars() {
	envVars := []string{
		"CODESCOPE_LOG_LEVEL",
		"CODESCOPE_STATE_ROOT",
		"CODESCOPE_PARSE_WORKERS",
		"CODESCOPE_PARSE_CACHE_TTL_MS",
		"CODESCOPE_MAX_FILE_BYTES",
	}
	for _, envVar := range envVars {
		os.Unsetenv(envVar)
	}
}
