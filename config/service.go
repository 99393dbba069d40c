package config

import (
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/validation"
)

// Environments lists the accepted values of ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every hostkit process needs. Embed it in
// larger config structs:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Charset CharsetConfig `yaml:"charset" mapstructure:"charset"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig. When embedded, the method
// is promoted so the embedding struct can be handled generically.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
		if c.Logging.Level == "" {
			c.Logging.Level = "debug"
		}
	}
	// Propagate service name into logging so Init() uses the right tag.
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Embedding structs call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	v := validation.New()
	v.Required("name", c.Name)
	v.OneOf("environment", c.Environment, Environments)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidInput("logging", err.Error()).WithCause(err)
	}
	return nil
}
