package config

import "os"

// Default values for configuration.
const (
	DefaultPrefix = "> "
	DefaultColor  = "auto"
)

// Environment variable names.
const (
	EnvPrefix   = "ZIPLOG_PREFIX"
	EnvInterval = "ZIPLOG_INTERVAL"
	EnvColor    = "ZIPLOG_COLOR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Prefix:  DefaultPrefix,
		Color:   DefaultColor,
		Sources: []SourceConfig{},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if prefix, ok := os.LookupEnv(EnvPrefix); ok {
		c.Prefix = prefix
	}
	if interval := os.Getenv(EnvInterval); interval != "" {
		c.Interval = interval
	}
	if color := os.Getenv(EnvColor); color != "" {
		c.Color = color
	}
}
