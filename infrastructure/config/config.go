// Package config loads the service configuration from an optional YAML file
// overlaid by environment variables. Configuration is immutable after startup.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/MSA-Technologies/MSAPulse/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address     string `yaml:"address" env:"SERVER_ADDRESS"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
}

// ObservabilityConfig holds the observability pipeline options
type ObservabilityConfig struct {
	CorrelationIDHeader       string `yaml:"correlationIdHeader" env:"CORRELATION_ID_HEADER" validate:"required"`
	SlowQueryThresholdMs      int    `yaml:"slowQueryThresholdMs" env:"SLOW_QUERY_THRESHOLD_MS" validate:"gte=0"`
	IncludeExceptionDetails   bool   `yaml:"includeExceptionDetails" env:"INCLUDE_EXCEPTION_DETAILS"`
	EnablePerformanceTracking bool   `yaml:"enablePerformanceTracking" env:"ENABLE_PERFORMANCE_TRACKING"`
	LogRequestResponseBodies  bool   `yaml:"logRequestResponseBodies" env:"LOG_REQUEST_RESPONSE_BODIES"`
	MinimumLogLevel           string `yaml:"minimumLogLevel" env:"MINIMUM_LOG_LEVEL"`
	MaxStoredMetrics          int    `yaml:"maxStoredMetrics" env:"MAX_STORED_METRICS" validate:"gt=0"`
}

// Default returns the configuration baseline before file and env overlays.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:     ":8080",
			Environment: "development",
		},
		Observability: ObservabilityConfig{
			CorrelationIDHeader:       "X-Correlation-ID",
			SlowQueryThresholdMs:      500,
			EnablePerformanceTracking: true,
			MinimumLogLevel:           "info",
			MaxStoredMetrics:          1000,
		},
	}
}

// LoadConfig builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. Validation fails fast.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, apperrors.NewConfigurationError("failed to parse environment").WithCause(err)
	}

	// Blank log level is the one silently defaulted option.
	if strings.TrimSpace(cfg.Observability.MinimumLogLevel) == "" {
		cfg.Observability.MinimumLogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigurationError(fmt.Sprintf("failed to read config file %s", path)).WithCause(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apperrors.NewConfigurationError(fmt.Sprintf("failed to parse config file %s", path)).WithCause(err)
	}
	return nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Observability.CorrelationIDHeader) == "" {
		return apperrors.NewConfigurationError("correlation id header must not be blank")
	}
	if c.Observability.SlowQueryThresholdMs < 0 {
		return apperrors.NewConfigurationError("slow query threshold must be non-negative")
	}
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigurationError("invalid configuration").WithCause(err)
	}
	return nil
}

// SlowQueryThreshold returns the threshold as a duration.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.Observability.SlowQueryThresholdMs) * time.Millisecond
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
