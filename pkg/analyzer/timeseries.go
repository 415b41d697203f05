package analyzer

import (
	"sort"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

// Resample aggregates the valued events of one category into consecutive
// period buckets spanning the first to the last populated period. Empty
// buckets in between carry zero count, sum and mean. Only values in a unit
// the category accepts participate, so vomit sums severity levels and never
// millilitres.
//
// Every Bucket holds count, sum and mean; the JSON form is shaped by
// category (see Series.MarshalJSON).
func Resample(events []record.Event, c record.Category, p Period) Series {
	series := Series{Category: c, Period: p, Buckets: []Bucket{}}

	type agg struct {
		count int
		sum   float64
	}
	buckets := make(map[int64]*agg)
	var first, last time.Time

	for _, ev := range events {
		if ev.Category != c || !ev.HasValue() || !c.Accepts(ev.Unit) {
			continue
		}
		start := truncate(ev.Timestamp, p)
		b, ok := buckets[start.Unix()]
		if !ok {
			b = &agg{}
			buckets[start.Unix()] = b
		}
		b.count++
		b.sum += *ev.Value

		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}

	if len(buckets) == 0 {
		return series
	}

	for t := first; !t.After(last); t = step(t, p) {
		bucket := Bucket{Start: t}
		if b, ok := buckets[t.Unix()]; ok {
			bucket.Count = b.count
			bucket.Sum = b.sum
			bucket.Mean = b.sum / float64(b.count)
		}
		series.Buckets = append(series.Buckets, bucket)
	}

	return series
}

func truncate(t time.Time, p Period) time.Time {
	if p == PeriodHour {
		return t.Truncate(time.Hour)
	}
	return record.Day(t)
}

func step(t time.Time, p Period) time.Time {
	if p == PeriodHour {
		return t.Add(time.Hour)
	}
	return t.AddDate(0, 0, 1)
}

// dailyColumn is one numeric column of the daily summaries.
type dailyColumn struct {
	name string
	get  func(record.DailySummary) float64
}

var dailyColumns = []dailyColumn{
	{"sleep_minutes", func(s record.DailySummary) float64 { return float64(s.SleepMinutes) }},
	{"milk_amount", func(s record.DailySummary) float64 { return float64(s.MilkAmount) }},
	{"milk_count", func(s record.DailySummary) float64 { return float64(s.MilkCount) }},
	{"pee_count", func(s record.DailySummary) float64 { return float64(s.PeeCount) }},
	{"poop_count", func(s record.DailySummary) float64 { return float64(s.PoopCount) }},
	{"breastfeed_left", func(s record.DailySummary) float64 { return float64(s.BreastfeedLeft) }},
	{"breastfeed_right", func(s record.DailySummary) float64 { return float64(s.BreastfeedRight) }},
	{"vomit_count", func(s record.DailySummary) float64 { return float64(s.VomitCount) }},
	{"vomit_level_sum", func(s record.DailySummary) float64 { return s.VomitLevelSum }},
}

// sortedSummaries returns a copy ordered by date.
func sortedSummaries(summaries []record.DailySummary) []record.DailySummary {
	out := make([]record.DailySummary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// mergeByDate returns one date-ordered summary per calendar date. Blocks
// repeating a date are summed into the first, so a per-date count joined on
// the date describes exactly one row.
func mergeByDate(summaries []record.DailySummary) []record.DailySummary {
	sorted := sortedSummaries(summaries)
	out := sorted[:0]
	for _, s := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(s.Date) {
			m := &out[n-1]
			m.BreastfeedLeft += s.BreastfeedLeft
			m.BreastfeedRight += s.BreastfeedRight
			m.MilkCount += s.MilkCount
			m.MilkAmount += s.MilkAmount
			m.SleepMinutes += s.SleepMinutes
			m.PeeCount += s.PeeCount
			m.PoopCount += s.PoopCount
			m.VomitCount += s.VomitCount
			m.VomitLevelSum += s.VomitLevelSum
			continue
		}
		out = append(out, s)
	}
	return out
}

// NewDailySeries lays the daily summaries out as date-ordered columns. It
// returns nil when there are no summaries.
func NewDailySeries(summaries []record.DailySummary) *DailySeries {
	if len(summaries) == 0 {
		return nil
	}

	sorted := sortedSummaries(summaries)
	series := &DailySeries{
		Dates:  make([]string, len(sorted)),
		Values: make(map[string][]float64, len(dailyColumns)),
	}
	for i, s := range sorted {
		series.Dates[i] = s.Date.Format(record.DateLayout)
	}
	for _, col := range dailyColumns {
		values := make([]float64, len(sorted))
		for i, s := range sorted {
			values[i] = col.get(s)
		}
		series.Values[col.name] = values
	}
	return series
}
