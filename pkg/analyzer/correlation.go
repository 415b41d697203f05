package analyzer

import (
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/stats"
)

// Daily features correlated against the marker's per-day count.
const (
	FeatureMilkAmount     = "milk_amount"
	FeatureSleepMinutes   = "sleep_minutes"
	FeatureMilkAmountLag1 = "milk_amount_lag1"
	FeatureMilkCount      = "milk_count"
	FeaturePeeCount       = "pee_count"
	FeaturePoopCount      = "poop_count"
)

var correlationFeatures = []dailyColumn{
	{FeatureMilkAmount, func(s record.DailySummary) float64 { return float64(s.MilkAmount) }},
	{FeatureSleepMinutes, func(s record.DailySummary) float64 { return float64(s.SleepMinutes) }},
	{FeatureMilkCount, func(s record.DailySummary) float64 { return float64(s.MilkCount) }},
	{FeaturePeeCount, func(s record.DailySummary) float64 { return float64(s.PeeCount) }},
	{FeaturePoopCount, func(s record.DailySummary) float64 { return float64(s.PoopCount) }},
}

// MarkerCorrelation relates the marker category to daily features, its
// time-of-day distribution and how often it follows trigger events.
//
// Daily rows are joined on date: summaries sharing a date are merged into one
// row, which is paired with the number of marker events whose block date
// matches. The lag-1 feature pairs a day with
// the previous calendar day's milk amount; days without a previous day are
// dropped.
func MarkerCorrelation(set record.Set, marker, trigger record.Category, windows []time.Duration) CorrelationAnalysis {
	res := CorrelationAnalysis{
		Marker:           marker,
		Trigger:          trigger,
		HourDistribution: hourDistribution(set.Events, marker),
	}
	res.TriggerCount, res.FollowOn = FollowOn(set.Events, trigger, marker, windows)

	if len(set.Summaries) == 0 {
		return res
	}

	perDay := make(map[string]float64)
	for _, ev := range set.Events {
		if ev.Category == marker {
			perDay[ev.Date.Format(record.DateLayout)]++
		}
	}

	summaries := mergeByDate(set.Summaries)
	y := make([]float64, len(summaries))
	for i, s := range summaries {
		y[i] = perDay[s.Date.Format(record.DateLayout)]
	}

	res.Pairs = make(map[string]stats.Correlation, len(correlationFeatures)+1)
	for _, f := range correlationFeatures {
		x := make([]float64, len(summaries))
		for i, s := range summaries {
			x[i] = f.get(s)
		}
		res.Pairs[f.name] = stats.Pearson(x, y)
	}

	byDate := make(map[string]record.DailySummary, len(summaries))
	for _, s := range summaries {
		byDate[s.Date.Format(record.DateLayout)] = s
	}
	var lagX, lagY []float64
	for i, s := range summaries {
		prev, ok := byDate[s.Date.AddDate(0, 0, -1).Format(record.DateLayout)]
		if !ok {
			continue
		}
		lagX = append(lagX, float64(prev.MilkAmount))
		lagY = append(lagY, y[i])
	}
	if len(lagX) > 0 {
		res.Pairs[FeatureMilkAmountLag1] = stats.Pearson(lagX, lagY)
	}

	return res
}
