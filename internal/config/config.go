package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// ServerConfig configures cmd/server.
type ServerConfig struct {
	AppEnv    string          `koanf:"app_env"`
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Cache     CacheConfig     `koanf:"cache"`
	Dedupe    DedupeConfig    `koanf:"dedupe"`
	CORS      CORSConfig      `koanf:"cors"`
}

type HTTPConfig struct {
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver         string `koanf:"driver"`
	Host           string `koanf:"host"`
	Port           string `koanf:"port"`
	User           string `koanf:"user"`
	Password       string `koanf:"password"`
	Name           string `koanf:"name"`
	SSLMode        string `koanf:"ssl_mode"`
	SQLitePath     string `koanf:"sqlite_path"`
	ConnectRetries int    `koanf:"connect_retries"`
	AutoMigrate    bool   `koanf:"auto_migrate"`
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	// Host left empty keeps the staff cache in memory.
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return net.JoinHostPort(r.Host, r.Port) }

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64  `koanf:"requests_per_second"`
	Burst             int      `koanf:"burst"`
	Whitelist         []string `koanf:"whitelist"`
}

type CacheConfig struct {
	StaffTTL        time.Duration `koanf:"staff_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type DedupeConfig struct {
	// Interval of the scheduled unkeyed-duplicate pass. Zero disables it.
	Interval time.Duration `koanf:"interval"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Validate checks the server configuration for missing or inconsistent values.
func (c *ServerConfig) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("database.host and database.name are required for postgres"))
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit.requests_per_second and rate_limit.burst must be positive"))
	}
	if c.Dedupe.Interval < 0 {
		errs = append(errs, errors.New("dedupe.interval must not be negative"))
	}
	return errors.Join(errs...)
}

// AgentConfig configures cmd/agent.
type AgentConfig struct {
	AppEnv       string             `koanf:"app_env"`
	API          APIConfig          `koanf:"api"`
	Store        StoreConfig        `koanf:"store"`
	Registry     RegistryConfig     `koanf:"registry"`
	Capture      CaptureConfig      `koanf:"capture"`
	Sync         SyncConfig         `koanf:"sync"`
	Health       HealthConfig       `koanf:"health"`
	Reachability ReachabilityConfig `koanf:"reachability"`
	Status       StatusConfig       `koanf:"status"`
	Session      SessionConfig      `koanf:"session"`
}

type APIConfig struct {
	BaseURL        string        `koanf:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
}

type RegistryConfig struct {
	// Path to the JSON export of the device call log.
	Path string `koanf:"path"`
}

type CaptureConfig struct {
	// Cutoff is a YYYY-MM-DD date; calls before it are never captured.
	Cutoff string `koanf:"cutoff"`
	// Lookback bounds the read window relative to now. Zero disables it.
	Lookback time.Duration `koanf:"lookback"`
}

// CutoffTime parses Cutoff. An empty cutoff yields the zero time.
func (c CaptureConfig) CutoffTime() (time.Time, error) {
	if c.Cutoff == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", c.Cutoff, time.Local)
}

type SyncConfig struct {
	Interval         time.Duration `koanf:"interval"`
	FallbackInterval time.Duration `koanf:"fallback_interval"`
	SubmitTimeout    time.Duration `koanf:"submit_timeout"`
}

type HealthConfig struct {
	ProbeInterval    time.Duration `koanf:"probe_interval"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	OpenTimeout      time.Duration `koanf:"open_timeout"`
	ProbeTimeout     time.Duration `koanf:"probe_timeout"`
}

type ReachabilityConfig struct {
	// Address is host:port dialed to decide whether the device is online.
	// Empty derives it from api.base_url.
	Address string        `koanf:"address"`
	Timeout time.Duration `koanf:"timeout"`
}

type StatusConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// SessionConfig optionally seeds the device session at startup.
type SessionConfig struct {
	StaffID string `koanf:"staff_id"`
	Token   string `koanf:"token"`
}

// ReachabilityAddress returns the configured dial address or derives one from the API base URL.
func (c *AgentConfig) ReachabilityAddress() (string, error) {
	if c.Reachability.Address != "" {
		return c.Reachability.Address, nil
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse api.base_url: %w", err)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if strings.EqualFold(u.Scheme, "https") {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// Validate checks the agent configuration for missing or inconsistent values.
func (c *AgentConfig) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	} else if _, err := c.ReachabilityAddress(); err != nil {
		errs = append(errs, err)
	}
	if c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is required"))
	}
	if _, err := c.Capture.CutoffTime(); err != nil {
		errs = append(errs, fmt.Errorf("capture.cutoff: %w", err))
	}
	if c.Sync.Interval <= 0 || c.Sync.FallbackInterval <= 0 {
		errs = append(errs, errors.New("sync.interval and sync.fallback_interval must be positive"))
	}
	if c.Sync.SubmitTimeout <= 0 || c.API.RequestTimeout <= 0 {
		errs = append(errs, errors.New("sync.submit_timeout and api.request_timeout must be positive"))
	}
	if c.Health.ProbeInterval <= 0 || c.Health.FailureThreshold == 0 {
		errs = append(errs, errors.New("health.probe_interval and health.failure_threshold must be positive"))
	}
	if c.Session.Token != "" && c.Session.StaffID == "" {
		errs = append(errs, errors.New("session.token requires session.staff_id"))
	}
	return errors.Join(errs...)
}
