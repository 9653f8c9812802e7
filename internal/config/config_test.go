package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAgent_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadAgent()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Sync.Interval != 30*time.Second {
		t.Errorf("Expected sync interval 30s, got %s", cfg.Sync.Interval)
	}
	if cfg.Sync.FallbackInterval != 15*time.Minute {
		t.Errorf("Expected fallback interval 15m, got %s", cfg.Sync.FallbackInterval)
	}
	if cfg.Health.FailureThreshold != 3 {
		t.Errorf("Expected failure threshold 3, got %d", cfg.Health.FailureThreshold)
	}

	cutoff, err := cfg.Capture.CutoffTime()
	if err != nil {
		t.Fatalf("Expected cutoff to parse, got %v", err)
	}
	if cutoff.Year() != 2025 || cutoff.Month() != time.August || cutoff.Day() != 1 {
		t.Errorf("Expected cutoff 2025-08-01, got %s", cutoff)
	}
}

func TestLoadAgent_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("AGENT_SYNC_INTERVAL", "5s")
	t.Setenv("AGENT_PROBE_FAILURES", "5")
	t.Setenv("AGENT_API_BASE_URL", "https://calls.example.com")
	t.Setenv("AGENT_STAFF_ID", "staff-1")

	cfg, err := LoadAgent()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Sync.Interval != 5*time.Second {
		t.Errorf("Expected sync interval 5s, got %s", cfg.Sync.Interval)
	}
	if cfg.Health.FailureThreshold != 5 {
		t.Errorf("Expected failure threshold 5, got %d", cfg.Health.FailureThreshold)
	}
	if cfg.Session.StaffID != "staff-1" {
		t.Errorf("Expected staff id staff-1, got %q", cfg.Session.StaffID)
	}

	addr, err := cfg.ReachabilityAddress()
	if err != nil {
		t.Fatalf("Expected reachability address, got %v", err)
	}
	if addr != "calls.example.com:443" {
		t.Errorf("Expected calls.example.com:443, got %s", addr)
	}
}

func TestLoadServer_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calltrack.yaml")
	yaml := "database:\n  driver: sqlite\n  sqlite_path: /tmp/calls.db\nauth:\n  jwt_secret: from-file\nrate_limit:\n  burst: 10\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Expected driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Expected env to override file, got %s", cfg.Auth.JWTSecret)
	}
	if cfg.RateLimit.Burst != 10 {
		t.Errorf("Expected burst 10, got %d", cfg.RateLimit.Burst)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Expected two trimmed origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestServerConfig_Validate_MissingSecret(t *testing.T) {
	cfg := defaultServerConfig()

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when jwt secret is empty")
	}
}

func TestAgentConfig_Validate_TokenWithoutStaff(t *testing.T) {
	cfg := defaultAgentConfig()
	cfg.Session.Token = "token"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when token is set without staff id")
	}
}
