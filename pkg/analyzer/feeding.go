package analyzer

import (
	"github.com/ccollicutt/babylog/pkg/record"
)

// FeedingPatterns describes milk intake and feeding times. Intervals are
// measured between consecutive milk events on the same calendar day.
func FeedingPatterns(set record.Set) FeedingAnalysis {
	milk := byCategory(set.Events, record.CategoryMilk)

	res := FeedingAnalysis{
		MilkTimeDistribution:   hourDistribution(set.Events, record.CategoryMilk),
		FoodTimeDistribution:   hourDistribution(set.Events, record.CategoryFood),
		MilkAmountDistribution: describe(valuesOf(milk)),
	}

	if len(set.Summaries) > 0 {
		amounts := make([]float64, len(set.Summaries))
		counts := make([]float64, len(set.Summaries))
		for i, s := range set.Summaries {
			amounts[i] = float64(s.MilkAmount)
			counts[i] = float64(s.MilkCount)
		}
		res.DailyMilkAmount = describe(amounts)
		res.DailyMilkCount = describe(counts)
	}

	var intervals []float64
	for i := 1; i < len(milk); i++ {
		prev, cur := milk[i-1].Timestamp, milk[i].Timestamp
		if record.SameDay(prev, cur) {
			intervals = append(intervals, cur.Sub(prev).Minutes())
		}
	}
	res.MilkIntervalMinutes = describe(intervals)

	return res
}
