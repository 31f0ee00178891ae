package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.BackendURL != "http://localhost:8001" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.UserID != "anonymous" {
		t.Errorf("UserID = %q", cfg.UserID)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.StubPort != "8001" {
		t.Errorf("StubPort = %q", cfg.StubPort)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SYNAPSE_BACKEND_URL", "http://backend:9000")
	t.Setenv("SYNAPSE_USER_ID", "dr-smith")
	t.Setenv("SYNAPSE_HTTP_TIMEOUT", "15s")
	t.Setenv("SYNAPSE_TRACING_ENABLED", "true")
	t.Setenv("SYNAPSE_STUB_RATE_LIMIT", "5")

	cfg := Load()

	if cfg.BackendURL != "http://backend:9000" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.UserID != "dr-smith" {
		t.Errorf("UserID = %q", cfg.UserID)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if !cfg.TracingEnabled {
		t.Error("TracingEnabled = false, want true")
	}
	if cfg.StubRateLimit != 5 {
		t.Errorf("StubRateLimit = %d, want 5", cfg.StubRateLimit)
	}
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SYNAPSE_HTTP_TIMEOUT", "soon")
	t.Setenv("SYNAPSE_TRACING_ENABLED", "maybe")
	t.Setenv("SYNAPSE_STUB_RATE_LIMIT", "lots")

	cfg := Load()

	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want default 60s", cfg.HTTPTimeout)
	}
	if cfg.TracingEnabled {
		t.Error("TracingEnabled = true, want default false")
	}
	if cfg.StubRateLimit != 60 {
		t.Errorf("StubRateLimit = %d, want default 60", cfg.StubRateLimit)
	}
}
