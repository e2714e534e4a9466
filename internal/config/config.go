// Package config provides configuration management for routegraph.
//
// Config file locations (priority order):
//  1. $ROUTEGRAPH_CONFIG
//  2. ./routegraph.yaml
//  3. $XDG_CONFIG_HOME/routegraph/config.yaml
//  4. ~/.config/routegraph/config.yaml
//  5. /etc/routegraph/config.yaml
//
// A .env file in the working directory is loaded first, and the
// ROUTEGRAPH_* variables listed in env.go override file values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"routegraph/internal/domain"
)

// Optimizer kinds
const (
	OptimizerSequential = "sequential"
	OptimizerRemote     = "remote"
)

// Defaults
const (
	DefaultAddr          = ":3000"
	DefaultDriver        = "sqlite"
	DefaultSQLitePath    = "./routegraph.db"
	DefaultCacheCapacity = 1024
)

// Load reads the config at explicit, or searches the standard locations when
// explicit is empty. Defaults are returned if no file is found. Environment
// overrides are applied in every case.
func Load(explicit string) (*Config, string, error) {
	loadDotEnv()

	path := explicit
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	cfg, path, err := LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.applyEnv()
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	switch driver := strings.ToLower(strings.TrimSpace(c.Database.Driver)); driver {
	case "", "sqlite3":
		c.Database.Driver = DefaultDriver
	default:
		c.Database.Driver = driver
	}
	if c.Database.DSN == "" && c.Database.Driver == DefaultDriver {
		c.Database.DSN = DefaultSQLitePath
	}
	if c.Metric.Name == "" {
		c.Metric.Name = domain.MetricHaversine
	}
	if c.Optimizer.Kind == "" {
		c.Optimizer.Kind = OptimizerSequential
	}
	if c.Optimizer.Timeout == 0 {
		c.Optimizer.Timeout = Duration(30 * time.Second)
	}
	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = DefaultCacheCapacity
	}
}

// Validate checks the config for values the server cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "mysql":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn: required for driver %q", c.Database.Driver)
	}

	if _, err := c.DistanceMetric(); err != nil {
		return fmt.Errorf("metric.name: %w", err)
	}
	if c.Metric.RadiusMeters < 0 {
		return fmt.Errorf("metric.radius_meters: must not be negative")
	}

	if err := c.ServiceArea.Area().Validate(); err != nil {
		return fmt.Errorf("service_area: %w", err)
	}

	switch c.Optimizer.Kind {
	case OptimizerSequential:
	case OptimizerRemote:
		if c.Optimizer.URL == "" {
			return fmt.Errorf("optimizer.url: required for kind %q", OptimizerRemote)
		}
	default:
		return fmt.Errorf("optimizer.kind: unknown kind %q", c.Optimizer.Kind)
	}

	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity: must not be negative")
	}
	return nil
}

// DistanceMetric resolves the configured metric
func (c *Config) DistanceMetric() (domain.DistanceMetric, error) {
	return domain.MetricByName(c.Metric.Name, c.Metric.RadiusMeters)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	area := c.ServiceArea.Area()
	summary := fmt.Sprintf("Addr: %s, Database: %s, Metric: %s\n",
		c.Server.Addr, c.Database.Driver, c.Metric.Name)
	summary += fmt.Sprintf("Optimizer: %s, Cache: %d routes", c.Optimizer.Kind, c.Cache.Capacity)
	if !area.Unrestricted() {
		summary += fmt.Sprintf("\nService area: lat [%g, %g], lng [%g, %g]", area.MinLat, area.MaxLat, area.MinLng, area.MaxLng)
	}
	return summary
}
