// Package config provides unified configuration loading for the support engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the support engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Cache         CacheConfig         `yaml:"cache"`
	Sources       SourcesConfig       `yaml:"sources"`
	Corpus        CorpusConfig        `yaml:"corpus"`
	Generative    GenerativeConfig    `yaml:"generative"`
	Audit         AuditConfig         `yaml:"audit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// CacheConfig holds reply cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// SourcesConfig holds knowledge source settings.
type SourcesConfig struct {
	// TTL is the freshness window for a cached knowledge document.
	TTL time.Duration `yaml:"ttl"`
	// FetchTimeout bounds a single live fetch attempt.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// Domains maps a knowledge domain to its live source URL. Domains
	// without a URL are served from the static corpus only.
	Domains map[string]string `yaml:"domains"`
}

// CorpusConfig holds static corpus store settings.
type CorpusConfig struct {
	Dir string `yaml:"dir"`
}

// GenerativeConfig holds generative responder settings.
type GenerativeConfig struct {
	Enabled bool          `yaml:"enabled"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig holds query audit trail settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8085,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     30 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		Sources: SourcesConfig{
			TTL:          30 * time.Minute,
			FetchTimeout: 10 * time.Second,
			Domains:      map[string]string{},
		},
		Corpus: CorpusConfig{
			Dir: "./corpus",
		},
		Generative: GenerativeConfig{
			Enabled: false,
			Model:   "gemini-2.0-flash-lite",
			Timeout: 60 * time.Second,
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    "/tmp/support-engine-audit.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "support-engine",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Sources.TTL <= 0 {
		return fmt.Errorf("sources ttl must be positive")
	}

	if c.Sources.FetchTimeout <= 0 {
		return fmt.Errorf("sources fetch_timeout must be positive")
	}

	if c.Corpus.Dir == "" {
		return fmt.Errorf("corpus dir is required")
	}

	if c.Generative.Enabled && c.Generative.APIKey == "" {
		return fmt.Errorf("generative responder enabled without api key")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("CORPUS_DIR"); v != "" {
		cfg.Corpus.Dir = v
	}

	if v := os.Getenv("SOURCE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sources.TTL = d
		}
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Generative.Enabled = true
		cfg.Generative.APIKey = v
	}

	if v := os.Getenv("AUDIT_DB_PATH"); v != "" {
		cfg.Audit.Enabled = true
		cfg.Audit.Path = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
