package analyzer

import (
	"github.com/ccollicutt/babylog/pkg/record"
)

// SleepPatterns describes daily sleep totals, sleep and wake timing, and
// fragmentation. Daily figures are per calendar date, with blocks repeating a
// date merged. Fragmentation for a day is its wake event count divided by
// (sleep hours + epsilon), so days without sleep stay finite.
func SleepPatterns(set record.Set, epsilon float64) SleepAnalysis {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}

	res := SleepAnalysis{
		SleepStartDistribution: hourDistribution(set.Events, record.CategorySleep),
		WakeTimeDistribution:   hourDistribution(set.Events, record.CategoryWake),
		SleepDurationMinutes:   describe(valuesOf(byCategory(set.Events, record.CategorySleep))),
	}

	if len(set.Summaries) == 0 {
		return res
	}

	wakes := make(map[string]int)
	for _, ev := range set.Events {
		if ev.Category == record.CategoryWake {
			wakes[ev.Date.Format(record.DateLayout)]++
		}
	}

	days := mergeByDate(set.Summaries)
	minutes := make([]float64, len(days))
	hours := make([]float64, len(days))
	fragmentation := make([]float64, len(days))
	for i, s := range days {
		minutes[i] = float64(s.SleepMinutes)
		hours[i] = minutes[i] / 60
		fragmentation[i] = float64(wakes[s.Date.Format(record.DateLayout)]) / (hours[i] + epsilon)
	}

	res.DailySleepMinutes = describe(minutes)
	res.DailySleepHours = describe(hours)
	res.Fragmentation = describe(fragmentation)
	return res
}
