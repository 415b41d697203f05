package output

import (
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/record"
)

var testDay = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

// createTestSet builds four days where milk amount and vomiting rise
// together and a fever appears on the last day.
func createTestSet() record.Set {
	var set record.Set
	for i := 0; i < 4; i++ {
		day := testDay.AddDate(0, 0, i)
		set.Summaries = append(set.Summaries, record.DailySummary{
			Date:         day,
			MilkCount:    5 + i,
			MilkAmount:   600 + 50*i,
			SleepMinutes: 600 + 15*(i%2),
			PeeCount:     6,
			PoopCount:    1 + i%2,
			VomitCount:   i,
		})
		milk := day.Add(9 * time.Hour)
		set.Events = append(set.Events,
			record.Event{Date: day, Timestamp: milk, Category: record.CategoryMilk, Value: record.Float(100), Unit: record.UnitML},
			record.Event{Date: day, Timestamp: day.Add(21 * time.Hour), Category: record.CategorySleep},
		)
		for v := 0; v < i; v++ {
			ts := milk.Add(time.Duration(20+v) * time.Minute)
			set.Events = append(set.Events, record.Event{Date: day, Timestamp: ts, Category: record.CategoryVomit, Value: record.Float(2), Unit: record.UnitLevel})
		}
		set.Growth = append(set.Growth, record.GrowthRecord{Date: day, Type: record.GrowthWeight, Value: 6000 + float64(10*i), Unit: record.UnitGram})
	}
	set.Growth = append(set.Growth, record.GrowthRecord{Date: testDay.AddDate(0, 0, 3), Type: record.GrowthTemperature, Value: 38.0, Unit: record.UnitCelsius})
	return set
}

func createTestReport() *Report {
	return NewReport(analyzer.Analyze(createTestSet()), "test.txt")
}

func TestCorrelationStrength(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0, "正のほとんどなし相関"},
		{0.19, "正のほとんどなし相関"},
		{0.2, "正の弱い相関"},
		{-0.45, "負の中程度相関"},
		{0.6, "正の強い相関"},
		{-0.8, "負の非常に強い相関"},
		{1, "正の非常に強い相関"},
	}

	for _, tt := range tests {
		if got := CorrelationStrength(tt.r); got != tt.want {
			t.Errorf("CorrelationStrength(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestNewReport(t *testing.T) {
	report := createTestReport()

	if report.Metadata.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.Metadata.Source != "test.txt" || report.Metadata.Days != 4 {
		t.Errorf("metadata = %+v", report.Metadata)
	}

	sleep := report.TimeSeries["sleep"]
	if len(sleep.Data) != 4 || sleep.Data[0] != 10 || sleep.Unit != "時間" {
		t.Errorf("sleep chart = %+v", sleep)
	}
	vomit := report.TimeSeries["vomit"]
	if vomit.Data[3] != 3 {
		t.Errorf("vomit chart = %+v", vomit)
	}

	hourly, ok := report.HourlyPatterns["vomit"]
	if !ok || len(hourly.Labels) != 24 || hourly.Labels[9] != "9時" || hourly.Data[9] != 6 {
		t.Errorf("hourly vomit chart = %+v", hourly)
	}

	if len(report.Correlations) == 0 {
		t.Fatal("no correlations reported")
	}
	first := report.Correlations[0]
	if first.Key != analyzer.FeatureMilkAmount || first.Label != "ミルク摂取量と吐く回数" {
		t.Errorf("first correlation = %+v", first)
	}
	if first.Value < 0.99 || !first.Significant || first.Strength != "正の非常に強い相関" {
		t.Errorf("first correlation = %+v", first)
	}
	// pee count is constant, so its correlation is undefined and left out
	for _, c := range report.Correlations {
		if c.Key == analyzer.FeaturePeeCount {
			t.Errorf("undefined correlation reported: %+v", c)
		}
	}

	weight := report.Growth["weight"]
	if len(weight.Data) != 4 || weight.Data[0] != 6 || weight.Unit != "kg" {
		t.Errorf("weight chart = %+v", weight)
	}

	if !report.HasAlerts() || report.Alerts.FeverDays[0] != "2024-02-13" {
		t.Errorf("alerts = %+v", report.Alerts)
	}

	stat, ok := report.Summary.Stats["milk_amount"]
	if !ok || stat.Mean != 675 || stat.Min != 600 || stat.Max != 750 {
		t.Errorf("milk_amount stats = %+v", stat)
	}
}

func TestNewReport_Empty(t *testing.T) {
	report := NewReport(analyzer.Analyze(record.Set{}), "")

	if report.HasAlerts() {
		t.Error("empty report should have no alerts")
	}
	if len(report.Correlations) != 0 || len(report.TimeSeries) != 0 || len(report.Growth) != 0 {
		t.Errorf("empty report has content: %+v", report)
	}
	if report.Alerts.FeverDays == nil {
		t.Error("fever days should be an empty list, not nil")
	}
	if !strings.HasPrefix(report.Summary.Text, "【分析結果サマリー】") {
		t.Errorf("summary text = %q", report.Summary.Text)
	}
}

func TestNewReport_SingleDayStd(t *testing.T) {
	set := record.Set{Summaries: []record.DailySummary{{Date: testDay, MilkAmount: 500}}}
	report := NewReport(analyzer.Analyze(set), "")

	if s := report.Summary.Stats["milk_amount"]; s.Std != 0 || s.Mean != 500 {
		t.Errorf("single day stats = %+v", s)
	}
}

func TestSummaryText(t *testing.T) {
	text := SummaryText(analyzer.Analyze(createTestSet()))

	for _, want := range []string{
		"■ 日次統計",
		"・平均ミルク摂取量: 675ml",
		"■ 「吐く」イベントの相関分析",
		"・ミルク摂取量と吐く回数: 1.00 (正の非常に強い相関) [統計的に有意]",
		"・ミルク摂取後60分以内に吐く確率: 75.0%",
		"・最も多い睡眠開始時間帯: 21時台",
		"・体重: 6.00kg → 6.03kg (変化: 0.03kg)",
		"・発熱日数: 1日",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary text missing %q:\n%s", want, text)
		}
	}
}
