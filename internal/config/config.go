// Package config loads server settings from an optional YAML file, a .env
// file and ARSENAL_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds server settings.
type Config struct {
	DB                string        `yaml:"db"`
	Addr              string        `yaml:"addr"`
	AdminUser         string        `yaml:"admin_user"`
	Log               string        `yaml:"log"`
	JWTSecret         string        `yaml:"jwt_secret"`
	ReconcileSchedule string        `yaml:"reconcile_schedule"`
	ReconcileTimeout  time.Duration `yaml:"reconcile_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:                "arsenal.sqlite3",
		Addr:              ":8080",
		AdminUser:         "Admin",
		ReconcileSchedule: "@every 1h",
		ReconcileTimeout:  2 * time.Minute,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// envOverrides maps environment variables to the string settings they set.
var envOverrides = map[string]func(*Config) *string{
	"ARSENAL_DB":                 func(c *Config) *string { return &c.DB },
	"ARSENAL_ADDR":               func(c *Config) *string { return &c.Addr },
	"ARSENAL_ADMIN_USER":         func(c *Config) *string { return &c.AdminUser },
	"ARSENAL_LOG":                func(c *Config) *string { return &c.Log },
	"ARSENAL_JWT_SECRET":         func(c *Config) *string { return &c.JWTSecret },
	"ARSENAL_RECONCILE_SCHEDULE": func(c *Config) *string { return &c.ReconcileSchedule },
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	for key, field := range envOverrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field(&cfg) = v
		}
	}
	if v := os.Getenv("ARSENAL_RECONCILE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing ARSENAL_RECONCILE_TIMEOUT: %w", err)
		}
		cfg.ReconcileTimeout = d
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.New("database path is required")
	}
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.AdminUser == "" {
		return errors.New("admin username is required")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.New("jwt secret must be at least 32 characters")
	}
	if c.ReconcileSchedule != "" {
		if _, err := cron.ParseStandard(c.ReconcileSchedule); err != nil {
			return fmt.Errorf("invalid reconcile schedule %q: %w", c.ReconcileSchedule, err)
		}
	}
	if c.ReconcileTimeout <= 0 || c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	return nil
}
