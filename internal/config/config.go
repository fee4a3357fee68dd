// Package config loads rooted's settings from defaults, an optional YAML
// file and ROOTED_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all user-facing settings.
type Config struct {
	// DBPath is the SQLite file. Empty means the store's default location.
	DBPath string `yaml:"db_path"`

	// TimeZone is the IANA zone in which streak days are counted.
	TimeZone string `yaml:"time_zone" validate:"required"`

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`

	// NumericMode is how a bare number on the eval command line is read:
	// "star" turns 4 into star:4, "score" turns 85 into score:85.
	NumericMode string `yaml:"numeric_mode" validate:"oneof=star score"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeZone:    "UTC",
		LogLevel:    "warn",
		LogFormat:   "text",
		NumericMode: "star",
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if p := os.Getenv("ROOTED_DB"); p != "" {
		c.DBPath = p
	}
	if tz := os.Getenv("ROOTED_TZ"); tz != "" {
		c.TimeZone = tz
	}
	if l := os.Getenv("ROOTED_LOG_LEVEL"); l != "" {
		c.LogLevel = l
	}
	if f := os.Getenv("ROOTED_LOG_FORMAT"); f != "" {
		c.LogFormat = f
	}
}

// Load reads the config file at path over the defaults, then applies the
// environment and validates the result. An empty path uses DefaultPath;
// a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultPath resolves the config file path in priority order:
// 1. ROOTED_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/rooted/config.yaml
// 3. ~/.config/rooted/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("ROOTED_CONFIG"); p != "" {
		return p, nil
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "rooted", "config.yaml"), nil
}

// Validate checks field values and that the time zone exists.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
