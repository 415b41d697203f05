package analyzer

import (
	"fmt"
	"math"

	"github.com/ccollicutt/babylog/pkg/record"
)

// HourlyPattern bins the valued events of one category by time of day. Values
// in a unit the category does not accept are left out.
// Every bin is returned, empty ones with zero aggregates. Days is the number
// of distinct block dates in the bin; DailyAvg divides the bin count by the
// number of distinct dates on which the category was observed at all.
func HourlyPattern(events []record.Event, c record.Category, bins int) []PatternBin {
	if bins < 1 || bins > 24 {
		bins = DefaultHourBins
	}
	binHours := 24.0 / float64(bins)

	out := make([]PatternBin, bins)
	for i := range out {
		out[i].Label = binLabel(i, bins, binHours)
	}

	binDays := make([]map[string]bool, bins)
	allDays := make(map[string]bool)

	for _, ev := range events {
		if ev.Category != c || !ev.HasValue() || !c.Accepts(ev.Unit) {
			continue
		}
		hour := float64(ev.Timestamp.Hour()) + float64(ev.Timestamp.Minute())/60
		i := int(math.Floor(hour / binHours))
		if i >= bins {
			i = bins - 1
		}

		day := ev.Date.Format(record.DateLayout)
		if binDays[i] == nil {
			binDays[i] = make(map[string]bool)
		}
		binDays[i][day] = true
		allDays[day] = true

		out[i].Count++
		out[i].Sum += *ev.Value
	}

	for i := range out {
		out[i].Days = len(binDays[i])
		if out[i].Count > 0 {
			out[i].Mean = out[i].Sum / float64(out[i].Count)
		}
		if len(allDays) > 0 {
			out[i].DailyAvg = float64(out[i].Count) / float64(len(allDays))
		}
	}

	return out
}

func binLabel(i, bins int, binHours float64) string {
	if bins == 24 {
		return fmt.Sprintf("%02d:00", i)
	}
	return fmt.Sprintf("%02d:00-%02d:00", int(float64(i)*binHours), int(float64(i+1)*binHours))
}
