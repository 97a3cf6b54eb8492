// Package config loads the environment-driven configuration for an
// xctest run: timeouts, output format, and log level.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/gocorexctest/xctest/internal/corelog"
	"github.com/gocorexctest/xctest/internal/xcerrors"
)

// Config holds the knobs an xctest run reads from the environment.
type Config struct {
	// RunTimeout bounds the whole run; zero means unbounded.
	RunTimeout time.Duration
	// DefaultWaiterTimeout is used by a Waiter when the test doesn't
	// supply one explicitly.
	DefaultWaiterTimeout time.Duration
	// WaiterSliceInterval is the suspension slice cap used by the
	// cooperative wait loop (spec.md §4.E step 3); it is clamped to
	// 100ms by Validate.
	WaiterSliceInterval time.Duration
	// OutputFormat names a listing format: "human", "json", or "yaml".
	// Validate checks it; cmd/xctestrun picks the listing format from
	// its command-line flags and does not read this field.
	OutputFormat string
	// LogLevel controls the verbosity of the ambient corelog.Logger.
	LogLevel corelog.Level
}

const maxWaiterSlice = 100 * time.Millisecond

// Load reads XCTEST_* environment variables, falling back to sane
// defaults for anything unset.
func Load() *Config {
	return &Config{
		RunTimeout:           getEnvAsDuration("XCTEST_RUN_TIMEOUT", 0),
		DefaultWaiterTimeout: getEnvAsDuration("XCTEST_DEFAULT_WAITER_TIMEOUT", 30*time.Second),
		WaiterSliceInterval:  getEnvAsDuration("XCTEST_WAITER_SLICE_INTERVAL", maxWaiterSlice),
		OutputFormat:         getEnvAsString("XCTEST_OUTPUT_FORMAT", "human"),
		LogLevel:             corelog.ParseLevel(getEnvAsString("XCTEST_LOG_LEVEL", "info")),
	}
}

// Validate checks the configuration for internally-inconsistent
// values, returning an *xcerrors.RunError describing the first
// problem found.
func (c *Config) Validate() error {
	if c.RunTimeout < 0 {
		return xcerrors.NewConfigurationError(xcerrors.CodeInvalidConfigValue, "RunTimeout must not be negative", nil)
	}
	if c.DefaultWaiterTimeout <= 0 {
		return xcerrors.NewConfigurationError(xcerrors.CodeInvalidConfigValue, "DefaultWaiterTimeout must be positive", nil)
	}
	if c.WaiterSliceInterval <= 0 {
		return xcerrors.NewConfigurationError(xcerrors.CodeInvalidConfigValue, "WaiterSliceInterval must be positive", nil)
	}
	if c.WaiterSliceInterval > maxWaiterSlice {
		c.WaiterSliceInterval = maxWaiterSlice
	}
	switch c.OutputFormat {
	case "human", "json", "yaml":
	default:
		return xcerrors.NewConfigurationError(xcerrors.CodeInvalidConfigValue, "OutputFormat must be human, json, or yaml", nil)
	}
	return nil
}

func getEnvAsString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
