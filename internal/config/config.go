// Package config provides configuration loading for the envfilter server.
//
// Configuration is a YAML file with defaults for every field and
// ENVFILTER_* environment variable overrides applied after parsing.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `yaml:"listen_addr"`

	// DatabasePath is the sqlite database file location.
	DatabasePath string `yaml:"database_path"`

	// DefaultPageSize is applied when a filter request omits limit.
	DefaultPageSize int `yaml:"default_page_size"`

	// MaxPageSize caps caller-supplied limits.
	MaxPageSize int `yaml:"max_page_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		ListenAddr:      ":8080",
		DatabasePath:    "envfilter.db",
		DefaultPageSize: 50,
		MaxPageSize:     500,
		LogLevel:        "info",
	}
}

// Load loads a config from the specified path. The file must exist; missing
// fields keep their defaults, then environment overrides and validation apply.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads the config at path, or returns defaults (still
// subject to environment overrides and validation) when path is empty.
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENVFILTER_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("ENVFILTER_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("ENVFILTER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ENVFILTER_DEFAULT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DefaultPageSize = n
		}
	}
	if v := os.Getenv("ENVFILTER_MAX_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxPageSize = n
		}
	}
}

// Validate checks field values and cross-field constraints.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path must not be empty")
	}
	if c.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max_page_size must be positive, got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size %d exceeds max_page_size %d", c.DefaultPageSize, c.MaxPageSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}
