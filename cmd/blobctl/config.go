package main

import (
	"github.com/kbukum/artifactstore/artifact"
	"github.com/kbukum/artifactstore/config"
	"github.com/kbukum/artifactstore/observability"
	"github.com/kbukum/artifactstore/version"
)

// Config is the blobctl configuration file layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Blobstores           artifact.Config      `yaml:"blobstores" mapstructure:"blobstores"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Blobstores.Validate()
}

func loadConfig(opts *globalOptions) (*Config, error) {
	cfg := &Config{}
	if err := config.Load(serviceName, cfg,
		config.WithConfigFile(opts.configFile),
		config.WithEnvFile(opts.envFile),
		config.WithEnvPrefix(opts.envPrefix),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}
