// Package config provides configuration loading and validation for ziplog.
package config

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Prefix is the default prefix for timestamped lines.
	Prefix string `yaml:"prefix"`

	// Interval selects the interval column unit: "", "s" or "ms".
	Interval string `yaml:"interval,omitempty"`

	// Color is auto, always or never.
	Color string `yaml:"color,omitempty"`

	// Sources lists log files to merge. Paths may be globs.
	Sources []SourceConfig `yaml:"sources,omitempty"`
}

// SourceConfig defines one log source.
type SourceConfig struct {
	// Path is a file path, a glob, or "-" for standard input.
	Path string `yaml:"path"`

	// Prefix overrides the default prefix for this source.
	// Nil means use the default; an empty string means no prefix.
	Prefix *string `yaml:"prefix,omitempty"`
}

// PrefixOr returns the source's prefix, or def if none is set.
func (s SourceConfig) PrefixOr(def string) string {
	if s.Prefix == nil {
		return def
	}
	return *s.Prefix
}
