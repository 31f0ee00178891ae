// Package config provides environment configuration for the client.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Backend settings
	BackendURL  string
	UserID      string
	HTTPTimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string

	// Tracing
	TracingEnabled  bool
	TracingEndpoint string

	// Stub backend settings
	StubPort            string
	StubRateLimit       int
	StubRateLimitWindow time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Backend
		BackendURL:  getEnv("SYNAPSE_BACKEND_URL", "http://localhost:8001"),
		UserID:      getEnv("SYNAPSE_USER_ID", "anonymous"),
		HTTPTimeout: getDurationEnv("SYNAPSE_HTTP_TIMEOUT", 60*time.Second),

		// Logging
		LogLevel: getEnv("SYNAPSE_LOG_LEVEL", "info"),
		LogFile:  getEnv("SYNAPSE_LOG_FILE", defaultLogFile()),

		// Tracing
		TracingEnabled:  getBoolEnv("SYNAPSE_TRACING_ENABLED", false),
		TracingEndpoint: getEnv("SYNAPSE_TRACING_ENDPOINT", "localhost:4318"),

		// Stub backend
		StubPort:            getEnv("SYNAPSE_STUB_PORT", "8001"),
		StubRateLimit:       getIntEnv("SYNAPSE_STUB_RATE_LIMIT", 60),
		StubRateLimitWindow: getDurationEnv("SYNAPSE_STUB_RATE_LIMIT_WINDOW", time.Minute),
	}
}

// Dir returns the directory holding client state (session id, logs),
// creating it if needed.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "synapsechat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func defaultLogFile() string {
	dir, err := Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "synapsechat.log")
	}
	return filepath.Join(dir, "synapsechat.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
