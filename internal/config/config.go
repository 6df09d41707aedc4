package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int      `mapstructure:"port"`
	DatabaseDriver string   `mapstructure:"database_driver"` // "postgres" or "sqlite"
	DatabaseURL    string   `mapstructure:"database_url"`    // Postgres DSN
	DatabasePath   string   `mapstructure:"database_path"`   // SQLite file path
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	RequestTimeoutSec  int `mapstructure:"request_timeout_sec"`  // HTTP read/write; 0 = server default
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait

	CacheTTLSec          int `mapstructure:"cache_ttl_sec"`           // Default entry TTL for the query cache
	DashboardCacheTTLSec int `mapstructure:"dashboard_cache_ttl_sec"` // Dashboard aggregate TTL
	CacheCleanupSec      int `mapstructure:"cache_cleanup_sec"`       // Expired-entry sweep interval; 0 = no sweeper

	ReadRateLimitPerMin  int `mapstructure:"read_rate_limit_per_min"`  // Per-IP ceiling for GET endpoints; 0 = disabled
	WriteRateLimitPerMin int `mapstructure:"write_rate_limit_per_min"` // Per-IP ceiling for mutating endpoints; 0 = disabled

	OTLPEndpoint      string  `mapstructure:"otlp_endpoint"`       // Empty = tracing disabled
	TraceSamplingRate float64 `mapstructure:"trace_sampling_rate"` // 0..1
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/recruitflow/")
	viper.AddConfigPath("$HOME/.recruitflow")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("database_driver", "sqlite")
	viper.SetDefault("database_url", "")
	viper.SetDefault("database_path", "./recruitflow.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("request_timeout_sec", 30)
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("cache_ttl_sec", 300)
	viper.SetDefault("dashboard_cache_ttl_sec", 60)
	viper.SetDefault("cache_cleanup_sec", 60)
	viper.SetDefault("read_rate_limit_per_min", 120)
	viper.SetDefault("write_rate_limit_per_min", 60)
	viper.SetDefault("otlp_endpoint", "")
	viper.SetDefault("trace_sampling_rate", 0.1)

	// Environment variables
	viper.SetEnvPrefix("RECRUITFLOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Env vars deliver lists as a single comma-separated string
	if len(cfg.AllowedOrigins) == 1 && strings.Contains(cfg.AllowedOrigins[0], ",") {
		parts := strings.Split(cfg.AllowedOrigins[0], ",")
		cfg.AllowedOrigins = cfg.AllowedOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, p)
			}
		}
	}

	return &cfg, nil
}
