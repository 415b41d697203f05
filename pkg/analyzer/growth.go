package analyzer

import (
	"sort"

	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/stats"
)

// GrowthTrends summarizes growth records by type. Weights are normalized to
// kilograms first. Records whose unit does not measure their type are
// skipped. Records are ordered by date, keeping source order within a date.
func GrowthTrends(growth []record.GrowthRecord, feverThreshold float64) GrowthAnalysis {
	var weights, heights, temps []record.GrowthRecord
	for _, g := range growth {
		if !g.Valid() {
			continue
		}
		switch g.Type {
		case record.GrowthWeight:
			weights = append(weights, g.NormalizeWeight())
		case record.GrowthHeight:
			heights = append(heights, g)
		case record.GrowthTemperature:
			temps = append(temps, g)
		}
	}

	var res GrowthAnalysis
	res.Weight = trend(weights, record.UnitKG)
	res.Height = trend(heights, record.UnitCM)

	if len(temps) == 0 {
		return res
	}

	sortByDate(temps)
	values := growthValues(temps)
	d := stats.Describe(values)
	res.Temperature = &TemperatureStats{
		Min:    d.Min,
		Max:    d.Max,
		Mean:   d.Mean,
		Median: d.Median,
		Data:   points(temps),
	}
	if d.Count > 1 {
		std := d.Std
		res.Temperature.Std = &std
	}

	seen := make(map[string]bool)
	for _, t := range temps {
		day := t.Date.Format(record.DateLayout)
		if t.Value >= feverThreshold && !seen[day] {
			seen[day] = true
			res.FeverDays = append(res.FeverDays, day)
		}
	}
	sort.Strings(res.FeverDays)

	return res
}

func trend(records []record.GrowthRecord, unit record.Unit) *Trend {
	if len(records) == 0 {
		return nil
	}

	sortByDate(records)
	values := growthValues(records)
	d := stats.Describe(values)

	first, last := values[0], values[len(values)-1]
	return &Trend{
		First:  first,
		Last:   last,
		Min:    d.Min,
		Max:    d.Max,
		Change: last - first,
		Unit:   unit,
		Data:   points(records),
	}
}

func sortByDate(records []record.GrowthRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

func growthValues(records []record.GrowthRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}

func points(records []record.GrowthRecord) []Point {
	out := make([]Point, len(records))
	for i, r := range records {
		out[i] = Point{Date: r.Date.Format(record.DateLayout), Value: r.Value}
	}
	return out
}
