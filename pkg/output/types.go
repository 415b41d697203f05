// Package output composes analysis results into a presentation report and
// renders it as text, JSON or HTML.
package output

import (
	"time"

	"github.com/ccollicutt/babylog/pkg/analyzer"
)

// Report is the presentation shape of one analysis.
type Report struct {
	Summary Summary `json:"summary"`

	// TimeSeries holds daily charts keyed by "sleep", "milk" and "vomit".
	TimeSeries map[string]Chart `json:"time_series"`

	// HourlyPatterns holds 24-hour charts keyed by marker category.
	HourlyPatterns map[string]Chart `json:"hourly_patterns"`

	Correlations []CorrelationItem `json:"correlations"`

	// Growth holds measurement charts keyed by "weight" and "height".
	Growth map[string]Chart `json:"growth"`

	Alerts Alerts `json:"alerts"`

	Metadata Metadata `json:"metadata"`

	// Analysis is the full result tree, attached for verbose output.
	Analysis *analyzer.Result `json:"analysis,omitempty"`
}

// Summary is the headline text and per-column daily statistics.
type Summary struct {
	Text  string              `json:"text"`
	Stats map[string]StatLine `json:"stats"`
}

// StatLine condenses a daily column. Std is 0 when it is undefined.
type StatLine struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
}

// Chart is a labelled data series.
type Chart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Unit   string    `json:"unit"`
}

// CorrelationItem is one defined correlation with its interpretation.
type CorrelationItem struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
	Strength    string  `json:"strength"`
	N           int     `json:"n"`
}

// Alerts lists conditions worth attention.
type Alerts struct {
	FeverDays []string `json:"fever_days"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// RunID identifies this analysis run.
	RunID string `json:"run_id"`

	// Source is the log file or store the records came from.
	Source string `json:"source,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`

	Days          int    `json:"days"`
	Events        int    `json:"events"`
	GrowthRecords int    `json:"growth_records"`
	FirstDate     string `json:"first_date,omitempty"`
	LastDate      string `json:"last_date,omitempty"`

	// Defects is the number of skipped blocks and lines, when known.
	Defects int `json:"defects"`
}

// HasAlerts returns true if any alert condition was found.
func (r *Report) HasAlerts() bool {
	return len(r.Alerts.FeverDays) > 0
}
