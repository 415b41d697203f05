package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/record"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults with environment overrides applied.
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

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults for
// optional fields left empty.
func Validate(cfg *Config) error {
	cfg.Input = expandEnvVar(cfg.Input)
	cfg.DataDir = expandEnvVar(cfg.DataDir)

	if cfg.DataDir == "" {
		return errors.New("data_dir: must not be empty")
	}

	switch cfg.Store {
	case "":
		cfg.Store = DefaultStore
	case "csv", "sqlite":
	default:
		return fmt.Errorf("store: invalid value %q (must be csv or sqlite)", cfg.Store)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "":
		cfg.LogLevel = DefaultLogLevel
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: invalid value %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = DefaultLogFormat
	case "text", "json":
	default:
		return fmt.Errorf("log_format: invalid value %q (must be text or json)", cfg.LogFormat)
	}

	if cfg.Workers < 0 {
		return errors.New("workers: must be >= 0")
	}

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err)
		}
	}

	return nil
}

func validateAnalysis(a *AnalysisConfig) error {
	marker, err := record.ParseCategory(a.MarkerCategory)
	if err != nil {
		return fmt.Errorf("marker_category: %w", err)
	}
	trigger, err := record.ParseCategory(a.TriggerCategory)
	if err != nil {
		return fmt.Errorf("trigger_category: %w", err)
	}
	if marker == trigger {
		return fmt.Errorf("marker_category and trigger_category must differ (both %q)", marker)
	}

	if len(a.FollowOnWindows) == 0 {
		return errors.New("follow_on_windows: at least one window is required")
	}
	for i, w := range a.FollowOnWindows {
		if w <= 0 {
			return fmt.Errorf("follow_on_windows[%d]: must be positive, got %s", i, w)
		}
	}

	if a.HourBins < 1 || a.HourBins > 24 || 24%a.HourBins != 0 {
		return fmt.Errorf("hour_bins: %d does not divide 24", a.HourBins)
	}

	if a.FeverThreshold <= 0 {
		return fmt.Errorf("fever_threshold: must be positive, got %g", a.FeverThreshold)
	}

	if _, err := analyzer.ParsePeriod(a.Period); err != nil {
		return fmt.Errorf("period: %w", err)
	}

	if a.Epsilon <= 0 {
		return fmt.Errorf("epsilon: must be positive, got %g", a.Epsilon)
	}

	return nil
}

// Options converts validated analysis settings into analyzer options.
func (a AnalysisConfig) Options() []analyzer.Option {
	return []analyzer.Option{
		analyzer.WithMarker(record.Category(a.MarkerCategory)),
		analyzer.WithTrigger(record.Category(a.TriggerCategory)),
		analyzer.WithWindows(a.FollowOnWindows...),
		analyzer.WithHourBins(a.HourBins),
		analyzer.WithFeverThreshold(a.FeverThreshold),
		analyzer.WithPeriod(analyzer.Period(a.Period)),
		analyzer.WithEpsilon(a.Epsilon),
	}
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnAlerts
	case WebhookTriggerOnAlerts, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_alerts, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a value written wholly as ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
