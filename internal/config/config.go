// Package config loads turncost settings from a YAML file, TURNCOST_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/turncost/pkg/batch"
)

// Config is the top-level configuration struct for turncost.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Original  BatchPaths      `mapstructure:"original"`
	Changed   BatchPaths      `mapstructure:"changed"`
	Report    string          `mapstructure:"report"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// BatchPaths holds the schedule and result directories of one batch.
type BatchPaths struct {
	Schedules string `mapstructure:"schedules"`
	Results   string `mapstructure:"results"`
}

// BatchConfig holds runner behaviour.
type BatchConfig struct {
	OnError      string `mapstructure:"on_error"`
	ResultPrefix string `mapstructure:"result_prefix"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidOnError indicates batch.on_error is neither abort nor skip.
	ErrInvalidOnError = errors.New("batch.on_error must be abort or skip")
	// ErrEmptyResultPrefix indicates batch.result_prefix is empty.
	ErrEmptyResultPrefix = errors.New("batch.result_prefix must not be empty")
	// ErrInvalidLogLevel indicates logging.level is not a known slog level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrEmptyPath indicates a required directory or file path is empty.
	ErrEmptyPath = errors.New("path must not be empty")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	_, err := batch.ParseErrorPolicy(c.Batch.OnError)
	if err != nil {
		return ErrInvalidOnError
	}

	if c.Batch.ResultPrefix == "" {
		return ErrEmptyResultPrefix
	}

	_, err = parseLevel(c.Logging.Level)
	if err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return c.validatePaths()
}

func (c *Config) validatePaths() error {
	paths := []struct {
		key   string
		value string
	}{
		{"original.schedules", c.Original.Schedules},
		{"original.results", c.Original.Results},
		{"changed.schedules", c.Changed.Schedules},
		{"changed.results", c.Changed.Results},
		{"report", c.Report},
	}

	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%w: %s", ErrEmptyPath, p.key)
		}
	}

	return nil
}

// ErrorPolicy returns the validated batch error policy.
func (c *Config) ErrorPolicy() batch.ErrorPolicy {
	policy, err := batch.ParseErrorPolicy(c.Batch.OnError)
	if err != nil {
		return batch.PolicyAbort
	}

	return policy
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}
}
