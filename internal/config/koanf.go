package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order; the first file found is used.
var DefaultConfigPaths = []string{
	"calltrack.yaml",
	"calltrack.yml",
	"/etc/calltrack/config.yaml",
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		AppEnv: "development",
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           "5432",
			User:           "calltrack",
			Name:           "calltrack",
			SSLMode:        "disable",
			SQLitePath:     "calltrack.db",
			ConnectRetries: 10,
			AutoMigrate:    true,
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		Auth: AuthConfig{
			TokenTTL: 30 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             50,
			Whitelist:         []string{"127.0.0.1"},
		},
		Cache: CacheConfig{
			StaffTTL:        5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"https://*", "http://localhost:3000"},
		},
	}
}

func defaultAgentConfig() *AgentConfig {
	return &AgentConfig{
		AppEnv: "development",
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path: "calltrack-device.db",
		},
		Registry: RegistryConfig{
			Path: "call_registry.json",
		},
		Capture: CaptureConfig{
			Cutoff: "2025-08-01",
		},
		Sync: SyncConfig{
			Interval:         30 * time.Second,
			FallbackInterval: 15 * time.Minute,
			SubmitTimeout:    10 * time.Second,
		},
		Health: HealthConfig{
			ProbeInterval:    10 * time.Second,
			FailureThreshold: 3,
			OpenTimeout:      30 * time.Second,
			ProbeTimeout:     5 * time.Second,
		},
		Reachability: ReachabilityConfig{
			Timeout: 3 * time.Second,
		},
		Status: StatusConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9091",
		},
	}
}

var serverEnvMappings = map[string]string{
	"app_env":                "app_env",
	"server_port":            "http.port",
	"http_read_timeout":      "http.read_timeout",
	"http_write_timeout":     "http.write_timeout",
	"db_driver":              "database.driver",
	"pg_host":                "database.host",
	"pg_port":                "database.port",
	"pg_user":                "database.user",
	"pg_password":            "database.password",
	"pg_db":                  "database.name",
	"pg_sslmode":             "database.ssl_mode",
	"sqlite_path":            "database.sqlite_path",
	"db_connect_retries":     "database.connect_retries",
	"db_auto_migrate":        "database.auto_migrate",
	"redis_host":             "redis.host",
	"redis_port":             "redis.port",
	"redis_password":         "redis.password",
	"redis_db":               "redis.db",
	"jwt_secret":             "auth.jwt_secret",
	"jwt_token_ttl":          "auth.token_ttl",
	"rate_limit_rps":         "rate_limit.requests_per_second",
	"rate_limit_burst":       "rate_limit.burst",
	"rate_limit_whitelist":   "rate_limit.whitelist",
	"staff_cache_ttl":        "cache.staff_ttl",
	"dedupe_interval":        "dedupe.interval",
	"cors_allowed_origins":   "cors.allowed_origins",
	"cache_cleanup_interval": "cache.cleanup_interval",
}

var agentEnvMappings = map[string]string{
	"app_env":                    "app_env",
	"agent_api_base_url":         "api.base_url",
	"agent_request_timeout":      "api.request_timeout",
	"agent_store_path":           "store.path",
	"agent_registry_path":        "registry.path",
	"agent_capture_cutoff":       "capture.cutoff",
	"agent_capture_lookback":     "capture.lookback",
	"agent_sync_interval":        "sync.interval",
	"agent_fallback_interval":    "sync.fallback_interval",
	"agent_submit_timeout":       "sync.submit_timeout",
	"agent_probe_interval":       "health.probe_interval",
	"agent_probe_failures":       "health.failure_threshold",
	"agent_probe_open_timeout":   "health.open_timeout",
	"agent_probe_timeout":        "health.probe_timeout",
	"agent_reachability_addr":    "reachability.address",
	"agent_reachability_timeout": "reachability.timeout",
	"agent_status_enabled":       "status.enabled",
	"agent_status_addr":          "status.addr",
	"agent_staff_id":             "session.staff_id",
	"agent_token":                "session.token",
}

var sliceConfigPaths = []string{
	"rate_limit.whitelist",
	"cors.allowed_origins",
}

// LoadServer loads the server configuration from defaults, an optional YAML file and the environment.
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := load(defaultServerConfig(), serverEnvMappings, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadAgent loads the device agent configuration.
func LoadAgent() (*AgentConfig, error) {
	cfg := &AgentConfig{}
	if err := load(defaultAgentConfig(), agentEnvMappings, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load(defaults interface{}, mappings map[string]string, out interface{}) error {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform(mappings)), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return fmt.Errorf("failed to process slice fields: %w", err)
	}

	if err := k.Unmarshal("", out); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps known environment variables onto config paths.
// Unmapped variables return "" and are skipped.
func envTransform(mappings map[string]string) func(string) string {
	return func(key string) string {
		if mapped, ok := mappings[strings.ToLower(key)]; ok {
			return mapped
		}
		return ""
	}
}

// processSliceFields splits comma-separated env values for slice options.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
