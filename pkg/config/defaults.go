package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
)

// Default values for configuration.
const (
	DefaultSource          = "."
	DefaultTimeout         = csvload.DefaultTimeout
	DefaultMaxBodyBytes    = csvload.DefaultMaxBytes
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// EnvPrefix prefixes every environment override, e.g. CHARTCSV_SOURCE or
// CHARTCSV_SERVER_ADDR.
const EnvPrefix = "CHARTCSV"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:       DefaultSource,
		Timeout:      DefaultTimeout,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// applyEnvironmentOverrides applies CHARTCSV_* variables over the config.
// Unset variables leave the current value alone.
func (c *Config) applyEnvironmentOverrides() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}
