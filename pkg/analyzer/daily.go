package analyzer

import (
	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/stats"
)

// DailyStats describes every daily summary column. The map is empty when
// there are no summaries.
func DailyStats(summaries []record.DailySummary) map[string]stats.Summary {
	out := make(map[string]stats.Summary, len(dailyColumns))
	if len(summaries) == 0 {
		return out
	}

	for _, col := range dailyColumns {
		values := make([]float64, len(summaries))
		for i, s := range summaries {
			values[i] = col.get(s)
		}
		out[col.name] = stats.Describe(values)
	}
	return out
}

// describe returns nil for an empty sample so that the section is omitted.
func describe(values []float64) *stats.Summary {
	if len(values) == 0 {
		return nil
	}
	s := stats.Describe(values)
	return &s
}

// valuesOf collects the values measured in a unit their category accepts.
func valuesOf(events []record.Event) []float64 {
	var out []float64
	for _, ev := range events {
		if ev.HasValue() && ev.Category.Accepts(ev.Unit) {
			out = append(out, *ev.Value)
		}
	}
	return out
}
