package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/featurekit/logger"
)

var validEnvironments = []string{"development", "staging", "production", "test"}

// ServiceConfig holds what every binary built on featurekit needs.
// Binaries embed it in their own config struct:
//
//	type Config struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Auth AuthConfig      `mapstructure:"auth"`
//	}
type ServiceConfig struct {
	Name          string              `yaml:"name" mapstructure:"name"`
	Environment   string              `yaml:"environment" mapstructure:"environment"`
	Version       string              `yaml:"version" mapstructure:"version"`
	Debug         bool                `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Features      FeaturesConfig      `yaml:"features" mapstructure:"features"`
}

// ObservabilityConfig controls the OpenTelemetry exporters.
type ObservabilityConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// MetricInterval is the export interval in seconds.
	MetricInterval int `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// FeaturesConfig selects which features are built during startup instead
// of on first use.
type FeaturesConfig struct {
	Eager []string `yaml:"eager" mapstructure:"eager"`
}

// IsEager reports whether name is listed for eager construction.
func (f FeaturesConfig) IsEager(name string) bool {
	return slices.Contains(f.Eager, name)
}

// GetServiceConfig is promoted through embedding so that any binary config
// satisfies bootstrap's Config constraint.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults fills unset fields. Embedding structs call it first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()

	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = "localhost:4318"
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.MetricInterval == 0 {
		c.Observability.MetricInterval = 15
	}
}

// Validate checks the base fields. Embedding structs call it first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(validEnvironments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvironments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if r := c.Observability.SampleRate; r < 0 || r > 1 {
		return fmt.Errorf("config.observability.sample_rate must be within [0, 1] (got: %v)", r)
	}
	return nil
}
