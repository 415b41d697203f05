package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/record"
)

// Default values for configuration.
const (
	DefaultDataDir        = "data"
	DefaultStore          = "csv"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultServerAddr     = ":8080"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvInput    = "BABYLOG_INPUT"
	EnvDataDir  = "BABYLOG_DATA_DIR"
	EnvLogLevel = "BABYLOG_LOG_LEVEL"
	EnvWorkers  = "BABYLOG_WORKERS"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	windows := make([]time.Duration, len(analyzer.DefaultWindows))
	copy(windows, analyzer.DefaultWindows)

	return &Config{
		DataDir:   DefaultDataDir,
		Store:     DefaultStore,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Analysis: AnalysisConfig{
			MarkerCategory:  string(record.CategoryVomit),
			TriggerCategory: string(record.CategoryMilk),
			FollowOnWindows: windows,
			HourBins:        analyzer.DefaultHourBins,
			FeverThreshold:  analyzer.DefaultFeverThreshold,
			Period:          string(analyzer.PeriodDay),
			Epsilon:         analyzer.DefaultEpsilon,
		},
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			CORSOrigins: []string{"*"},
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvInput); v != "" {
		c.Input = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}
