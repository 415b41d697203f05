package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

// Defaults used when no option overrides them.
const (
	DefaultHourBins       = 24
	DefaultFeverThreshold = 37.5
	DefaultEpsilon        = 0.001
)

// DefaultWindows are the follow-on windows checked after each trigger event.
var DefaultWindows = []time.Duration{30 * time.Minute, 60 * time.Minute, 120 * time.Minute}

// Analyzer holds analysis settings. It keeps no state between calls and is
// safe for concurrent use.
type Analyzer struct {
	marker         record.Category
	trigger        record.Category
	windows        []time.Duration
	hourBins       int
	feverThreshold float64
	period         Period
	epsilon        float64
	timeRange      *TimeRange
}

// TimeRange limits analysis to records whose day-block date falls within
// [Start, End].
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date of t lies inside the range. A zero bound
// is open.
func (r *TimeRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	d := record.Day(t)
	if !r.Start.IsZero() && d.Before(record.Day(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(record.Day(r.End)) {
		return false
	}
	return true
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithMarker sets the category treated as the analysis target.
func WithMarker(c record.Category) Option {
	return func(a *Analyzer) {
		a.marker = c
	}
}

// WithTrigger sets the category whose events open follow-on windows.
func WithTrigger(c record.Category) Option {
	return func(a *Analyzer) {
		a.trigger = c
	}
}

// WithWindows replaces the follow-on windows. Non-positive durations are
// ignored.
func WithWindows(windows ...time.Duration) Option {
	return func(a *Analyzer) {
		var ws []time.Duration
		for _, w := range windows {
			if w > 0 {
				ws = append(ws, w)
			}
		}
		a.windows = ws
	}
}

// WithHourBins sets how many time-of-day bins hourly patterns use.
func WithHourBins(n int) Option {
	return func(a *Analyzer) {
		a.hourBins = n
	}
}

// WithFeverThreshold sets the temperature that marks a fever day.
func WithFeverThreshold(celsius float64) Option {
	return func(a *Analyzer) {
		a.feverThreshold = celsius
	}
}

// WithPeriod sets the resampling period for event series.
func WithPeriod(p Period) Option {
	return func(a *Analyzer) {
		a.period = p
	}
}

// WithEpsilon sets the guard added to sleep hours in fragmentation.
func WithEpsilon(e float64) Option {
	return func(a *Analyzer) {
		a.epsilon = e
	}
}

// WithTimeRange limits analysis to records dated within the given range.
func WithTimeRange(start, end time.Time) Option {
	return func(a *Analyzer) {
		a.timeRange = &TimeRange{Start: start, End: end}
	}
}

// New creates an analyzer. Out-of-range settings fall back to defaults.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		marker:         record.CategoryVomit,
		trigger:        record.CategoryMilk,
		windows:        DefaultWindows,
		hourBins:       DefaultHourBins,
		feverThreshold: DefaultFeverThreshold,
		period:         PeriodDay,
		epsilon:        DefaultEpsilon,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.hourBins < 1 || a.hourBins > 24 {
		a.hourBins = DefaultHourBins
	}
	if len(a.windows) == 0 {
		a.windows = DefaultWindows
	}
	if a.epsilon <= 0 {
		a.epsilon = DefaultEpsilon
	}
	if a.period != PeriodHour {
		a.period = PeriodDay
	}

	return a
}

// ParsePeriod validates a resampling period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodHour:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want day or hour)", s)
}

// Analyze runs every sub-analysis with default settings overridden by opts.
func Analyze(set record.Set, opts ...Option) *Result {
	return New(opts...).Analyze(set)
}

// Analyze runs every sub-analysis over set. The input is never modified.
func (a *Analyzer) Analyze(set record.Set) *Result {
	set = a.filter(set)

	result := &Result{
		DailyStats: DailyStats(set.Summaries),
		TimeSeries: TimeSeries{
			Daily: NewDailySeries(set.Summaries),
			Resampled: map[record.Category]Series{
				a.marker:             Resample(set.Events, a.marker, a.period),
				a.trigger:            Resample(set.Events, a.trigger, a.period),
				record.CategorySleep: Resample(set.Events, record.CategorySleep, a.period),
			},
		},
		VomitCorrelation: MarkerCorrelation(set, a.marker, a.trigger, a.windows),
		SleepPatterns:    SleepPatterns(set, a.epsilon),
		FeedingPatterns:  FeedingPatterns(set),
		Growth:           GrowthTrends(set.Growth, a.feverThreshold),
		HourlyPatterns: map[record.Category][]PatternBin{
			a.marker:  HourlyPattern(set.Events, a.marker, a.hourBins),
			a.trigger: HourlyPattern(set.Events, a.trigger, a.hourBins),
		},
		Metadata: Metadata{
			Days:          len(set.Summaries),
			Events:        len(set.Events),
			GrowthRecords: len(set.Growth),
			Marker:        a.marker,
			Trigger:       a.trigger,
		},
	}

	if daily := result.TimeSeries.Daily; daily != nil && len(daily.Dates) > 0 {
		result.Metadata.FirstDate = daily.Dates[0]
		result.Metadata.LastDate = daily.Dates[len(daily.Dates)-1]
	}

	return result
}

// filter applies the time range, returning fresh slices.
func (a *Analyzer) filter(set record.Set) record.Set {
	if a.timeRange == nil {
		return set
	}

	var out record.Set
	for _, ev := range set.Events {
		if a.timeRange.Contains(ev.Date) {
			out.Events = append(out.Events, ev)
		}
	}
	for _, s := range set.Summaries {
		if a.timeRange.Contains(s.Date) {
			out.Summaries = append(out.Summaries, s)
		}
	}
	for _, g := range set.Growth {
		if a.timeRange.Contains(g.Date) {
			out.Growth = append(out.Growth, g)
		}
	}
	return out
}

// byCategory returns the events of one category sorted by timestamp.
func byCategory(events []record.Event, c record.Category) []record.Event {
	var out []record.Event
	for _, ev := range events {
		if ev.Category == c {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// hourDistribution counts events of one category per hour of day.
func hourDistribution(events []record.Event, c record.Category) HourCounts {
	var h HourCounts
	for _, ev := range events {
		if ev.Category != c {
			continue
		}
		if h == nil {
			h = make(HourCounts)
		}
		h[ev.Timestamp.Hour()]++
	}
	return h
}
