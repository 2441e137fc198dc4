package config

import (
	"fmt"

	"github.com/kbukum/gostream/forkjoin"
	"github.com/kbukum/gostream/logger"
	"github.com/kbukum/gostream/observability"
)

// EngineConfig contains everything needed to run stream evaluations.
// Applications embed it in their own config structs.
//
// Example:
//
//	type AppConfig struct {
//	    config.EngineConfig `yaml:",inline" mapstructure:",squash"`
//	    Input string `yaml:"input" mapstructure:"input"`
//	}
type EngineConfig struct {
	Name        string                     `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                     `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Pool        forkjoin.Config            `yaml:"pool" mapstructure:"pool"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// GetEngineConfig returns the EngineConfig. When embedded, this method is
// promoted so the embedding struct exposes its engine settings.
func (c *EngineConfig) GetEngineConfig() *EngineConfig {
	return c
}

// ApplyDefaults applies default values to every section.
func (c *EngineConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "gostream"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Pool.ApplyDefaults()
	c.Logging.ApplyDefaults()

	tracing := observability.DefaultTracerConfig(c.Name)
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = tracing.ServiceName
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = tracing.Endpoint
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = tracing.ServiceVersion
	}

	metrics := observability.DefaultMeterConfig(c.Name)
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = metrics.ServiceName
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = metrics.Endpoint
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = metrics.ServiceVersion
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = metrics.Interval
	}
}

// Validate validates struct tags first, then each section's own rules.
func (c *EngineConfig) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Pool.Validate(); err != nil {
		return fmt.Errorf("config.pool: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
