// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/craigslist-search/pkg/logger"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Craigslist CraigslistConfig `yaml:"craigslist"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CraigslistConfig defines how searches are built and pages fetched.
type CraigslistConfig struct {
	Domain          string          `yaml:"domain"`
	DefaultLocation string          `yaml:"default_location"`
	DefaultCategory string          `yaml:"default_category"`
	MinPageRows     int             `yaml:"min_page_rows"`
	MaxResults      int             `yaml:"max_results"`
	DefaultResults  int             `yaml:"default_results"`
	MaxConcurrency  int             `yaml:"max_concurrency"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`
	UserAgent       string          `yaml:"user_agent"`
	Backend         string          `yaml:"backend"` // resty, colly
	PhoneRegion     string          `yaml:"phone_region"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines the client-side request pacer.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	MaxPerHour int64   `yaml:"max_per_hour"` // 0 disables the hourly budget
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TelemetryConfig defines OpenTelemetry tracing. Tracing is off unless an
// OTLP endpoint is set.
type TelemetryConfig struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	Insecure     bool    `yaml:"insecure"`
	ServiceName  string  `yaml:"service_name"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

// Enabled reports whether traces should be exported.
func (t *TelemetryConfig) Enabled() bool {
	return t.OTLPEndpoint != ""
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Craigslist: CraigslistConfig{
			Domain:          "craigslist.org",
			DefaultLocation: "newyork",
			DefaultCategory: "sss",
			MinPageRows:     20,
			MaxResults:      120,
			DefaultResults:  25,
			MaxConcurrency:  4,
			RequestTimeout:  30 * time.Second,
			Backend:         "resty",
			PhoneRegion:     "US",
			RateLimit: RateLimitConfig{
				PerSecond: 2,
				Burst:     4,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "craigslist-search",
			SampleRatio: 1,
		},
	}
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. Values from a sibling "<name>.local.yaml"
// override the file's own. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}

		local := localPath(path)
		if _, err := os.Stat(local); err == nil {
			override := &Config{}
			if err := readFile(local, override); err != nil {
				return nil, err
			}
			if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merging %s: %w", local, err)
			}
			slog.Debug("merged local config overrides", "local", local)
		}
	}

	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}
	return nil
}

// localPath maps config.yaml to config.local.yaml.
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	errs = append(errs, validateCraigslist(&cfg.Craigslist)...)

	if !logger.ValidLevel(cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level,
		))
	}
	if !logger.ValidFormat(cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json (got %q)", cfg.Logging.Format,
		))
	}

	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf(
			"telemetry.sample_ratio must be between 0 and 1 (got %g)", cfg.Telemetry.SampleRatio,
		))
	}

	return errors.Join(errs...)
}

func validateCraigslist(c *CraigslistConfig) []error {
	var errs []error

	if strings.Contains(c.Domain, "/") || strings.Contains(c.Domain, ":") {
		errs = append(errs, fmt.Errorf("craigslist.domain must be a bare host name (got %q)", c.Domain))
	}

	switch c.Backend {
	case "resty", "colly":
	default:
		errs = append(errs, fmt.Errorf(
			"craigslist.backend must be one of: resty, colly (got %q)", c.Backend,
		))
	}

	if c.MinPageRows < 1 {
		errs = append(errs, fmt.Errorf("craigslist.min_page_rows must be positive (got %d)", c.MinPageRows))
	}
	if c.MaxResults < 1 {
		errs = append(errs, fmt.Errorf("craigslist.max_results must be positive (got %d)", c.MaxResults))
	}
	if c.DefaultResults < 1 || c.DefaultResults > c.MaxResults {
		errs = append(errs, fmt.Errorf(
			"craigslist.default_results must be between 1 and max_results %d (got %d)",
			c.MaxResults, c.DefaultResults,
		))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("craigslist.max_concurrency must be positive (got %d)", c.MaxConcurrency))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("craigslist.request_timeout must be positive (got %s)", c.RequestTimeout))
	}

	if c.RateLimit.PerSecond <= 0 {
		errs = append(errs, fmt.Errorf("craigslist.rate_limit.per_second must be positive (got %g)", c.RateLimit.PerSecond))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("craigslist.rate_limit.burst must be positive (got %d)", c.RateLimit.Burst))
	}
	if c.RateLimit.MaxPerHour < 0 {
		errs = append(errs, fmt.Errorf("craigslist.rate_limit.max_per_hour must not be negative (got %d)", c.RateLimit.MaxPerHour))
	}

	return errs
}
