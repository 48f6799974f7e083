// Package config provides configuration loading and validation for chartcsv.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
//
// Environment overrides are named CHARTCSV_<FIELD>, with nested sections
// adding their own prefix (CHARTCSV_SERVER_ADDR, CHARTCSV_LOG_LEVEL).
// Leaf fields must not carry an envconfig tag; envconfig falls back to a
// tagged field's bare name (ADDR, LEVEL) when the prefixed one is unset.
type Config struct {
	// Source is the directory or base URL that dataset paths are relative to.
	Source string `yaml:"source"`

	// Timeout bounds each HTTP fetch.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxBodyBytes bounds the size of each CSV resource.
	MaxBodyBytes int64 `yaml:"max_body_bytes,omitempty" split_words:"true"`

	// Datasets overrides the default path of named chart datasets.
	Datasets []DatasetConfig `yaml:"datasets,omitempty" ignored:"true"`

	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// DatasetConfig points a chart dataset at a different file.
type DatasetConfig struct {
	// Name is one of scatter, donut, bar, line.
	Name string `yaml:"name"`

	// Path is relative to Source unless it is absolute or a URL.
	Path string `yaml:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout,omitempty" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout,omitempty" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty" split_words:"true"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// DatasetPaths returns the dataset overrides keyed by name.
func (c *Config) DatasetPaths() map[string]string {
	paths := make(map[string]string, len(c.Datasets))
	for _, d := range c.Datasets {
		paths[d.Name] = d.Path
	}
	return paths
}
