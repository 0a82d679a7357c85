package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/ziplog/pkg/output"
	"github.com/ccollicutt/ziplog/pkg/parser"
)

// Load reads and validates a configuration file. Environment overrides
// are applied on top of the file.
func Load(_ context.Context, path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnvironment returns the default configuration with environment
// overrides applied and validated.
func FromEnvironment() (*Config, error) {
	cfg := fromEnvironment()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating environment: %w", err)
	}
	return cfg, nil
}

// Resolve builds the configuration from path, or from the defaults when
// path is empty, with environment overrides applied. The result is not
// validated: callers layer their own overrides on top and then call
// Validate once.
func Resolve(_ context.Context, path string) (*Config, error) {
	if path == "" {
		return fromEnvironment(), nil
	}
	return read(path)
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	return cfg, nil
}

func fromEnvironment() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	return cfg
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if _, err := output.ParseIntervalUnit(cfg.Interval); err != nil {
		return fmt.Errorf("interval: %w", err)
	}

	if _, err := output.ParseColorMode(cfg.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}

	for i, src := range cfg.Sources {
		if src.Path == "" {
			return fmt.Errorf("sources[%d]: path is required", i)
		}
	}

	return nil
}

// IntervalUnit returns the validated interval unit.
func (c *Config) IntervalUnit() output.IntervalUnit {
	u, _ := output.ParseIntervalUnit(c.Interval)
	return u
}

// ColorMode returns the validated color mode.
func (c *Config) ColorMode() output.ColorMode {
	m, _ := output.ParseColorMode(c.Color)
	return m
}

// SourceSpecs resolves the configured sources, expanding globs. Sources
// without their own prefix use the config's default prefix.
func (c *Config) SourceSpecs() ([]parser.SourceSpec, error) {
	specs := make([]parser.SourceSpec, 0, len(c.Sources))
	for _, src := range c.Sources {
		specs = append(specs, parser.SourceSpec{
			Prefix: src.PrefixOr(c.Prefix),
			Path:   src.Path,
		})
	}
	return parser.ExpandSources(specs)
}
