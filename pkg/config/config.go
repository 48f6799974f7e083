package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/datasets"
	"github.com/ccollicutt/chartcsv/pkg/logging"
)

// Load reads and validates a configuration file.
// An empty path yields the defaults plus environment overrides.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in zero-valued defaults.
func Validate(cfg *Config) error {
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}

	if csvload.IsURL(cfg.Source) {
		if err := validateURL(cfg.Source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
	}

	if cfg.Timeout < 0 {
		return errors.New("timeout: must not be negative")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.MaxBodyBytes < 0 {
		return errors.New("max_body_bytes: must not be negative")
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	seen := make(map[string]bool)
	for i, d := range cfg.Datasets {
		if err := validateDataset(d); err != nil {
			return fmt.Errorf("datasets[%d] (%s): %w", i, d.Name, err)
		}
		if seen[d.Name] {
			return fmt.Errorf("datasets[%d] (%s): duplicate dataset", i, d.Name)
		}
		seen[d.Name] = true
	}

	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

func validateDataset(d DatasetConfig) error {
	if d.Name == "" {
		return errors.New("name is required")
	}

	if _, err := datasets.NewCatalog(map[string]string{d.Name: d.Path}); err != nil {
		return err
	}

	if d.Path == "" {
		return errors.New("path is required")
	}

	if csvload.IsURL(d.Path) {
		return validateURL(d.Path)
	}

	return nil
}

func validateServer(s *ServerConfig) error {
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	return nil
}

func validateLogging(l *LoggingConfig) error {
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return err
	}

	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
	switch l.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", l.Format)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	return nil
}
