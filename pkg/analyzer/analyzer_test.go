package analyzer

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/ccollicutt/babylog/pkg/parser"
	"github.com/ccollicutt/babylog/pkg/record"
)

var day1 = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

// event builds an event on the block date of ts.
func event(c record.Category, ts time.Time, value *float64, unit record.Unit) record.Event {
	return record.Event{
		Date:      record.Day(ts),
		Timestamp: ts,
		Time:      ts.Format("15:04"),
		Category:  c,
		Value:     value,
		Unit:      unit,
	}
}

func at(day time.Time, hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

const scenarioLog = `----------
2024/2/10(土)
テスト (0歳4か月0日)

07:00   ミルク 100ml
10:00   ミルク 120ml
13:00   ミルク 80ml
13:45   吐く 小
15:00   体重 650g
----------
2024/2/11(日)
テスト (0歳4か月1日)

08:00   ミルク 140ml
12:00   ミルク 100ml
16:00   体重 6.7kg
`

func parseScenario(t *testing.T) record.Set {
	t.Helper()
	res, err := parser.Parse(scenarioLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res.Set
}

func TestAnalyze_FollowOnScenario(t *testing.T) {
	result := Analyze(parseScenario(t))

	rate, ok := result.VomitCorrelation.FollowOnRate(60 * time.Minute)
	if !ok {
		t.Fatal("60 minute window missing")
	}
	if want := 1.0 / 5.0; math.Abs(rate-want) > 1e-9 {
		t.Errorf("60min rate = %v, want %v", rate, want)
	}
	if result.VomitCorrelation.TriggerCount != 5 {
		t.Errorf("TriggerCount = %d, want 5", result.VomitCorrelation.TriggerCount)
	}

	rate30, _ := result.VomitCorrelation.FollowOnRate(30 * time.Minute)
	if rate30 != 0 {
		t.Errorf("30min rate = %v, want 0", rate30)
	}

	got := result.TimeSeries.Daily.Column("vomit_count")
	if !reflect.DeepEqual(got, []float64{1, 0}) {
		t.Errorf("vomit_count series = %v, want [1 0]", got)
	}
	if !reflect.DeepEqual(result.TimeSeries.Daily.Dates, []string{"2024-02-10", "2024-02-11"}) {
		t.Errorf("dates = %v", result.TimeSeries.Daily.Dates)
	}
}

func TestAnalyze_GrowthScenario(t *testing.T) {
	result := Analyze(parseScenario(t))

	w := result.Growth.Weight
	if w == nil {
		t.Fatal("weight trend missing")
	}
	if math.Abs(w.First-0.65) > 1e-9 {
		t.Errorf("First = %v, want 0.65", w.First)
	}
	if math.Abs(w.Last-6.7) > 1e-9 {
		t.Errorf("Last = %v, want 6.7", w.Last)
	}
	if math.Abs(w.Change-6.05) > 1e-9 {
		t.Errorf("Change = %v, want 6.05", w.Change)
	}
	if w.Unit != record.UnitKG {
		t.Errorf("Unit = %q, want kg", w.Unit)
	}
	if len(w.Data) != 2 || w.Data[0].Date != "2024-02-10" {
		t.Errorf("Data = %+v", w.Data)
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	set := parseScenario(t)
	before := make([]record.GrowthRecord, len(set.Growth))
	copy(before, set.Growth)

	Analyze(set)

	if !reflect.DeepEqual(before, set.Growth) {
		t.Error("Analyze modified growth records")
	}
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(record.Set{})

	if len(result.DailyStats) != 0 {
		t.Errorf("DailyStats = %v, want empty", result.DailyStats)
	}
	if result.TimeSeries.Daily != nil {
		t.Error("daily series should be nil")
	}
	if result.Growth.Weight != nil || result.Growth.Temperature != nil {
		t.Error("growth sections should be empty")
	}
	if result.VomitCorrelation.Pairs != nil {
		t.Error("correlation pairs should be empty")
	}
	for _, f := range result.VomitCorrelation.FollowOn {
		if f.Rate != 0 || f.Count != 0 {
			t.Errorf("follow-on %+v should be zero", f)
		}
	}

	if _, err := json.Marshal(result); err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
}

func TestAnalyze_SingleDayMarshals(t *testing.T) {
	set := record.Set{
		Events: []record.Event{
			event(record.CategoryMilk, at(day1, 7, 0), record.Float(100), record.UnitML),
			event(record.CategoryTemperature, at(day1, 8, 0), record.Float(37.2), record.UnitCelsius),
		},
		Summaries: []record.DailySummary{{Date: day1, MilkCount: 1, MilkAmount: 100}},
		Growth: []record.GrowthRecord{
			{Date: day1, Type: record.GrowthTemperature, Value: 37.2, Unit: record.UnitCelsius},
		},
	}

	result := Analyze(set)

	// single rows give undefined std and correlations
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"daily_stats", "time_series", "vomit_correlation", "sleep_patterns", "feeding_patterns", "growth", "hourly_patterns"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("result JSON missing %q", key)
		}
	}
	if result.Growth.Temperature.Std != nil {
		t.Error("temperature std should be omitted for one reading")
	}
}

func TestAnalyze_Options(t *testing.T) {
	set := parseScenario(t)

	result := Analyze(set,
		WithMarker(record.CategoryMilk),
		WithTrigger(record.CategoryWeight),
		WithWindows(90*time.Minute),
		WithHourBins(4),
	)

	if result.Metadata.Marker != record.CategoryMilk || result.Metadata.Trigger != record.CategoryWeight {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	if len(result.VomitCorrelation.FollowOn) != 1 || result.VomitCorrelation.FollowOn[0].Minutes != 90 {
		t.Errorf("FollowOn = %+v", result.VomitCorrelation.FollowOn)
	}
	if bins := result.HourlyPatterns[record.CategoryMilk]; len(bins) != 4 {
		t.Errorf("got %d milk bins, want 4", len(bins))
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(WithHourBins(0), WithWindows(), WithEpsilon(-1), WithPeriod("week"))

	if a.hourBins != DefaultHourBins {
		t.Errorf("hourBins = %d, want %d", a.hourBins, DefaultHourBins)
	}
	if !reflect.DeepEqual(a.windows, DefaultWindows) {
		t.Errorf("windows = %v, want %v", a.windows, DefaultWindows)
	}
	if a.epsilon != DefaultEpsilon {
		t.Errorf("epsilon = %v, want %v", a.epsilon, DefaultEpsilon)
	}
	if a.period != PeriodDay {
		t.Errorf("period = %q, want day", a.period)
	}
}

func TestAnalyze_WithTimeRange(t *testing.T) {
	set := parseScenario(t)
	day2 := day1.AddDate(0, 0, 1)

	result := Analyze(set, WithTimeRange(day2, day2))

	if result.Metadata.Days != 1 {
		t.Errorf("Days = %d, want 1", result.Metadata.Days)
	}
	if result.Metadata.FirstDate != "2024-02-11" {
		t.Errorf("FirstDate = %q", result.Metadata.FirstDate)
	}
	if result.VomitCorrelation.TriggerCount != 2 {
		t.Errorf("TriggerCount = %d, want 2", result.VomitCorrelation.TriggerCount)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"day", "hour"} {
		if _, err := ParsePeriod(s); err != nil {
			t.Errorf("ParsePeriod(%q) error = %v", s, err)
		}
	}
	if _, err := ParsePeriod("month"); err == nil {
		t.Error("ParsePeriod(month) expected error")
	}
}

func TestHourCounts_Peak(t *testing.T) {
	h := HourCounts{3: 2, 20: 5, 21: 5}
	if hour, ok := h.Peak(); !ok || hour != 20 {
		t.Errorf("Peak() = %d, %v; want 20, true", hour, ok)
	}
	if _, ok := HourCounts(nil).Peak(); ok {
		t.Error("Peak() on empty counts should report false")
	}
}
