// Package analyzer computes descriptive statistics, time-of-day patterns and
// correlations over parsed activity records.
package analyzer

import (
	"encoding/json"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/stats"
)

// Result is the full analysis tree for one record set.
type Result struct {
	// DailyStats describes each daily summary column.
	DailyStats map[string]stats.Summary `json:"daily_stats"`

	TimeSeries TimeSeries `json:"time_series"`

	// VomitCorrelation keeps its key when another marker is configured; the
	// marker and trigger in use are recorded inside.
	VomitCorrelation CorrelationAnalysis `json:"vomit_correlation"`

	SleepPatterns   SleepAnalysis   `json:"sleep_patterns"`
	FeedingPatterns FeedingAnalysis `json:"feeding_patterns"`
	Growth          GrowthAnalysis  `json:"growth"`

	// HourlyPatterns holds binned time-of-day profiles for the marker and
	// trigger categories.
	HourlyPatterns map[record.Category][]PatternBin `json:"hourly_patterns"`

	Metadata Metadata `json:"metadata"`
}

// Metadata describes the records an analysis covered.
type Metadata struct {
	Days          int             `json:"days"`
	Events        int             `json:"events"`
	GrowthRecords int             `json:"growth_records"`
	FirstDate     string          `json:"first_date,omitempty"`
	LastDate      string          `json:"last_date,omitempty"`
	Marker        record.Category `json:"marker"`
	Trigger       record.Category `json:"trigger"`
}

// HourCounts maps an hour of day (0-23) to a number of events.
type HourCounts map[int]int

// Peak returns the hour with the most events; ties go to the earliest hour.
// ok is false when there are no events.
func (h HourCounts) Peak() (hour int, ok bool) {
	best := -1
	for hr := 0; hr < 24; hr++ {
		if n := h[hr]; n > 0 && (best < 0 || n > h[best]) {
			best = hr
		}
	}
	return best, best >= 0
}

// TimeSeries holds the daily columns and resampled event series.
type TimeSeries struct {
	Daily     *DailySeries               `json:"daily,omitempty"`
	Resampled map[record.Category]Series `json:"resampled,omitempty"`
}

// DailySeries holds the daily summary columns as parallel arrays aligned
// with Dates.
type DailySeries struct {
	Dates  []string
	Values map[string][]float64
}

// Column returns the values for one column, or nil if it is unknown.
func (s *DailySeries) Column(name string) []float64 {
	if s == nil {
		return nil
	}
	return s.Values[name]
}

// MarshalJSON flattens the columns next to "dates".
func (s DailySeries) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.Values)+1)
	m["dates"] = s.Dates
	for k, v := range s.Values {
		m[k] = v
	}
	return json.Marshal(m)
}

// Period is a resampling interval.
type Period string

const (
	PeriodDay  Period = "day"
	PeriodHour Period = "hour"
)

// Bucket aggregates the valued events of one period. For vomit, Sum is the
// severity level sum.
type Bucket struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
	Sum   float64   `json:"sum"`
	Mean  float64   `json:"mean"`
}

// Series is a category's values resampled to a fixed period.
type Series struct {
	Category record.Category `json:"category"`
	Period   Period          `json:"period"`
	Buckets  []Bucket        `json:"buckets"`
}

// MarshalJSON shapes buckets by category: sleep buckets carry only the
// summed minutes, vomit buckets a count and a severity sum, and every other
// category mean, sum and count.
func (s Series) MarshalJSON() ([]byte, error) {
	buckets := make([]map[string]any, len(s.Buckets))
	for i, b := range s.Buckets {
		switch s.Category {
		case record.CategorySleep:
			buckets[i] = map[string]any{"start": b.Start, "sum": b.Sum}
		case record.CategoryVomit:
			buckets[i] = map[string]any{"start": b.Start, "count": b.Count, "severity": b.Sum}
		default:
			buckets[i] = map[string]any{"start": b.Start, "mean": b.Mean, "sum": b.Sum, "count": b.Count}
		}
	}
	return json.Marshal(struct {
		Category record.Category  `json:"category"`
		Period   Period           `json:"period"`
		Buckets  []map[string]any `json:"buckets"`
	}{s.Category, s.Period, buckets})
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw struct {
		Category record.Category `json:"category"`
		Period   Period          `json:"period"`
		Buckets  []struct {
			Start    time.Time `json:"start"`
			Count    int       `json:"count"`
			Sum      float64   `json:"sum"`
			Severity float64   `json:"severity"`
			Mean     float64   `json:"mean"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Series{Category: raw.Category, Period: raw.Period, Buckets: make([]Bucket, len(raw.Buckets))}
	for i, b := range raw.Buckets {
		s.Buckets[i] = Bucket{Start: b.Start, Count: b.Count, Sum: b.Sum, Mean: b.Mean}
		if raw.Category == record.CategoryVomit {
			s.Buckets[i].Sum = b.Severity
		}
	}
	return nil
}

// PatternBin aggregates one time-of-day bin.
type PatternBin struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Sum      float64 `json:"sum"`
	Days     int     `json:"days"`
	DailyAvg float64 `json:"daily_avg"`
}

// FollowOnWindow counts trigger events followed by a marker within Window.
type FollowOnWindow struct {
	Window time.Duration `json:"-"`

	Minutes int     `json:"window_minutes"`
	Count   int     `json:"count"`
	Rate    float64 `json:"rate"`
}

// CorrelationAnalysis relates a marker category to daily features.
type CorrelationAnalysis struct {
	Marker  record.Category `json:"marker"`
	Trigger record.Category `json:"trigger"`

	// Pairs maps a daily feature name to its correlation with the marker's
	// per-day count.
	Pairs map[string]stats.Correlation `json:"pairs,omitempty"`

	HourDistribution HourCounts `json:"marker_hour_distribution,omitempty"`

	TriggerCount int              `json:"trigger_count"`
	FollowOn     []FollowOnWindow `json:"follow_on"`
}

// FollowOnRate returns the rate for window w, if it was computed.
func (c CorrelationAnalysis) FollowOnRate(w time.Duration) (float64, bool) {
	for _, f := range c.FollowOn {
		if f.Window == w {
			return f.Rate, true
		}
	}
	return 0, false
}

// SleepAnalysis summarizes sleep totals, timing and continuity.
type SleepAnalysis struct {
	DailySleepMinutes      *stats.Summary `json:"daily_sleep_minutes,omitempty"`
	DailySleepHours        *stats.Summary `json:"daily_sleep_hours,omitempty"`
	SleepStartDistribution HourCounts     `json:"sleep_start_distribution,omitempty"`
	WakeTimeDistribution   HourCounts     `json:"wake_time_distribution,omitempty"`
	SleepDurationMinutes   *stats.Summary `json:"sleep_duration_minutes,omitempty"`

	// Fragmentation describes wake events per sleep hour across days.
	Fragmentation *stats.Summary `json:"sleep_fragmentation,omitempty"`
}

// FeedingAnalysis summarizes milk and solid food intake.
type FeedingAnalysis struct {
	DailyMilkAmount        *stats.Summary `json:"daily_milk_amount,omitempty"`
	DailyMilkCount         *stats.Summary `json:"daily_milk_count,omitempty"`
	MilkTimeDistribution   HourCounts     `json:"milk_time_distribution,omitempty"`
	MilkAmountDistribution *stats.Summary `json:"milk_amount_distribution,omitempty"`
	FoodTimeDistribution   HourCounts     `json:"food_time_distribution,omitempty"`
	MilkIntervalMinutes    *stats.Summary `json:"milk_interval_minutes,omitempty"`
}

// Point is one dated measurement.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trend summarizes a measurement over time, ordered by date.
type Trend struct {
	First  float64     `json:"first"`
	Last   float64     `json:"last"`
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	Change float64     `json:"change"`
	Unit   record.Unit `json:"unit"`
	Data   []Point     `json:"data"`
}

// TemperatureStats summarizes body temperature readings.
type TemperatureStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`

	// Std is nil with fewer than two readings.
	Std *float64 `json:"std,omitempty"`

	Data []Point `json:"data"`
}

// GrowthAnalysis summarizes weight, height and temperature.
type GrowthAnalysis struct {
	Weight      *Trend            `json:"weight_kg,omitempty"`
	Height      *Trend            `json:"height_cm,omitempty"`
	Temperature *TemperatureStats `json:"temperature_celsius,omitempty"`

	// FeverDays lists distinct dates with a reading at or above the fever
	// threshold, ascending.
	FeverDays []string `json:"fever_days,omitempty"`
}
