package config

import (
	"time"

	"routegraph/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version     int               `yaml:"version"`
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Metric      MetricConfig      `yaml:"metric"`
	ServiceArea ServiceAreaConfig `yaml:"service_area"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Cache       CacheConfig       `yaml:"cache"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or mysql
	DSN    string `yaml:"dsn"`    // file path for sqlite
}

// MetricConfig selects the distance metric used for edge weights
type MetricConfig struct {
	Name         string  `yaml:"name"`
	RadiusMeters float64 `yaml:"radius_meters,omitempty"` // 0 = mean earth radius
}

// ServiceAreaConfig bounds where markers may be placed. All zero = unrestricted.
type ServiceAreaConfig struct {
	MinLat float64 `yaml:"min_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLat float64 `yaml:"max_lat"`
	MaxLng float64 `yaml:"max_lng"`
}

// Area converts the config section to the domain bounding box
func (s ServiceAreaConfig) Area() domain.ServiceArea {
	return domain.ServiceArea{
		MinLat: s.MinLat,
		MinLng: s.MinLng,
		MaxLat: s.MaxLat,
		MaxLng: s.MaxLng,
	}
}

// OptimizerConfig selects the route optimizer
type OptimizerConfig struct {
	Kind    string   `yaml:"kind"` // sequential or remote
	URL     string   `yaml:"url,omitempty"`
	Timeout Duration `yaml:"timeout"`
}

// CacheConfig sizes the optimized route cache
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
