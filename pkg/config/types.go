// Package config provides configuration loading and validation for babylog.
package config

import (
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Input is the default log file for commands that take one.
	Input string `yaml:"input,omitempty"`

	// DataDir is where the record store keeps its files.
	DataDir string `yaml:"data_dir"`

	// Store selects the persistence backend (csv or sqlite).
	Store string `yaml:"store"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	// Workers bounds day-block parsing concurrency. Zero means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	Analysis AnalysisConfig  `yaml:"analysis"`
	Server   ServerConfig    `yaml:"server"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// AnalysisConfig tunes the analysis engine.
type AnalysisConfig struct {
	// MarkerCategory is the category being explained (vomit by default).
	MarkerCategory string `yaml:"marker_category"`

	// TriggerCategory opens follow-on windows (milk by default).
	TriggerCategory string `yaml:"trigger_category"`

	FollowOnWindows []time.Duration `yaml:"follow_on_windows"`

	// HourBins must divide 24.
	HourBins int `yaml:"hour_bins"`

	FeverThreshold float64 `yaml:"fever_threshold"`

	// Period is the resampling period for event series (day or hour).
	Period string `yaml:"period"`

	Epsilon float64 `yaml:"epsilon"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnAlerts fires only when the report carries alerts (default).
	WebhookTriggerOnAlerts WebhookTrigger = "on_alerts"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to on_alerts.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ShouldFire reports whether the webhook fires for a report with or without
// alerts.
func (w WebhookConfig) ShouldFire(hasAlerts bool) bool {
	switch w.Trigger {
	case WebhookTriggerAlways:
		return true
	case WebhookTriggerNever:
		return false
	default:
		return hasAlerts
	}
}

// DisplayName returns the webhook name, or its URL when unnamed.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
