// Package config loads warehouse connection settings from an optional YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"flight_dwh/internal/warehouse"
)

// DefaultPath is where Load looks when no config file is given.
const DefaultPath = "flightdwh.yaml"

// Config mirrors warehouse.Config with YAML tags.
type Config struct {
	Driver   string         `yaml:"driver"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Default returns the local development defaults.
func Default() *Config {
	w := warehouse.DefaultConfig()
	return &Config{
		Driver: w.Driver,
		Postgres: PostgresConfig{
			Host:     w.Postgres.Host,
			Port:     w.Postgres.Port,
			Database: w.Postgres.Database,
			User:     w.Postgres.User,
			Password: w.Postgres.Password,
		},
		SQLite: SQLiteConfig{Path: w.SQLite.Path},
	}
}

// Load reads configuration in increasing precedence: defaults, then the
// YAML file (missing file is fine unless a path was given explicitly), then
// DB_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file, use defaults.
	default:
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides settings from the DB_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Postgres.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Postgres.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Postgres.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
}

// Warehouse converts the loaded settings into the store's config type.
func (c *Config) Warehouse() warehouse.Config {
	return warehouse.Config{
		Driver: c.Driver,
		Postgres: warehouse.PostgresConfig{
			Host:     c.Postgres.Host,
			Port:     c.Postgres.Port,
			Database: c.Postgres.Database,
			User:     c.Postgres.User,
			Password: c.Postgres.Password,
		},
		SQLite: warehouse.SQLiteConfig{Path: c.SQLite.Path},
	}
}
