package output

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/record"
)

// SignificanceLevel is the p-value below which a correlation is reported as
// significant.
const SignificanceLevel = 0.05

// summaryColumns are the daily columns condensed into Summary.Stats.
var summaryColumns = []string{"sleep_minutes", "milk_amount", "milk_count", "pee_count", "poop_count", "vomit_count"}

// featureLabels name the correlation features, in report order.
var featureLabels = []struct {
	key   string
	label string
}{
	{analyzer.FeatureMilkAmount, "ミルク摂取量"},
	{analyzer.FeatureSleepMinutes, "睡眠時間"},
	{analyzer.FeatureMilkCount, "ミルク回数"},
	{analyzer.FeaturePeeCount, "おしっこ回数"},
	{analyzer.FeaturePoopCount, "うんち回数"},
	{analyzer.FeatureMilkAmountLag1, "前日のミルク摂取量"},
}

var categoryLabels = map[record.Category]string{
	record.CategoryWake:        "起きる",
	record.CategorySleep:       "寝る",
	record.CategoryMilk:        "ミルク",
	record.CategoryBreastfeed:  "母乳",
	record.CategoryPee:         "おしっこ",
	record.CategoryPoop:        "うんち",
	record.CategoryVomit:       "吐く",
	record.CategoryBath:        "お風呂",
	record.CategoryWeight:      "体重",
	record.CategoryHeight:      "身長",
	record.CategoryTemperature: "体温",
	record.CategoryHospital:    "病院",
	record.CategoryVaccination: "予防接種",
	record.CategoryFood:        "離乳食",
	record.CategoryMedicine:    "くすり",
	record.CategoryMedical:     "検査・処置",
	record.CategoryExamination: "診察",
	record.CategoryOther:       "その他",
}

// CategoryLabel returns the display name of a category.
func CategoryLabel(c record.Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// NewReport composes the presentation report from an analysis result.
func NewReport(result *analyzer.Result, source string) *Report {
	report := &Report{
		Summary: Summary{
			Text:  SummaryText(result),
			Stats: make(map[string]StatLine),
		},
		TimeSeries:     make(map[string]Chart),
		HourlyPatterns: make(map[string]Chart),
		Correlations:   []CorrelationItem{},
		Growth:         make(map[string]Chart),
		Alerts:         Alerts{FeverDays: []string{}},
		Metadata: Metadata{
			RunID:         uuid.NewString(),
			Source:        source,
			AnalyzedAt:    time.Now().UTC(),
			Days:          result.Metadata.Days,
			Events:        result.Metadata.Events,
			GrowthRecords: result.Metadata.GrowthRecords,
			FirstDate:     result.Metadata.FirstDate,
			LastDate:      result.Metadata.LastDate,
		},
	}

	for _, col := range summaryColumns {
		s, ok := result.DailyStats[col]
		if !ok || s.Empty() {
			continue
		}
		report.Summary.Stats[col] = StatLine{
			Mean: finite(s.Mean),
			Min:  finite(s.Min),
			Max:  finite(s.Max),
			Std:  finite(s.Std),
		}
	}

	if daily := result.TimeSeries.Daily; daily != nil {
		hours := make([]float64, len(daily.Dates))
		for i, m := range daily.Column("sleep_minutes") {
			hours[i] = m / 60
		}
		report.TimeSeries["sleep"] = Chart{Labels: daily.Dates, Data: hours, Unit: "時間"}
		report.TimeSeries["milk"] = Chart{Labels: daily.Dates, Data: daily.Column("milk_amount"), Unit: "ml"}
		report.TimeSeries["vomit"] = Chart{Labels: daily.Dates, Data: daily.Column("vomit_count"), Unit: "回"}
	}

	corr := result.VomitCorrelation
	if corr.HourDistribution != nil {
		chart := Chart{Labels: make([]string, 24), Data: make([]float64, 24), Unit: "回"}
		for h := 0; h < 24; h++ {
			chart.Labels[h] = fmt.Sprintf("%d時", h)
			chart.Data[h] = float64(corr.HourDistribution[h])
		}
		report.HourlyPatterns[string(corr.Marker)] = chart
	}

	markerLabel := CategoryLabel(corr.Marker) + "回数"
	for _, f := range featureLabels {
		c, ok := corr.Pairs[f.key]
		if !ok || !c.Valid {
			continue
		}
		report.Correlations = append(report.Correlations, CorrelationItem{
			Key:         f.key,
			Label:       f.label + "と" + markerLabel,
			Value:       c.R,
			PValue:      c.P,
			Significant: c.P < SignificanceLevel,
			Strength:    CorrelationStrength(c.R),
			N:           c.N,
		})
	}

	if w := result.Growth.Weight; w != nil {
		report.Growth["weight"] = pointChart(w.Data, string(record.UnitKG))
	}
	if h := result.Growth.Height; h != nil {
		report.Growth["height"] = pointChart(h.Data, string(record.UnitCM))
	}
	report.Alerts.FeverDays = append(report.Alerts.FeverDays, result.Growth.FeverDays...)

	return report
}

func pointChart(points []analyzer.Point, unit string) Chart {
	c := Chart{Labels: make([]string, len(points)), Data: make([]float64, len(points)), Unit: unit}
	for i, p := range points {
		c.Labels[i] = p.Date
		c.Data[i] = p.Value
	}
	return c
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CorrelationStrength describes a correlation coefficient in words, with its
// direction. Bands are |r| < 0.2, 0.4, 0.6, 0.8 and above.
func CorrelationStrength(r float64) string {
	var strength string
	switch a := math.Abs(r); {
	case a < 0.2:
		strength = "ほとんどなし"
	case a < 0.4:
		strength = "弱い"
	case a < 0.6:
		strength = "中程度"
	case a < 0.8:
		strength = "強い"
	default:
		strength = "非常に強い"
	}

	direction := "正"
	if r < 0 {
		direction = "負"
	}
	return direction + "の" + strength + "相関"
}

// SummaryText renders the headline findings of an analysis.
func SummaryText(result *analyzer.Result) string {
	var b strings.Builder
	b.WriteString("【分析結果サマリー】\n\n")

	if len(result.DailyStats) > 0 {
		b.WriteString("■ 日次統計\n")
		if s, ok := result.DailyStats["sleep_minutes"]; ok {
			fmt.Fprintf(&b, "・平均睡眠時間: %.1f時間\n", s.Mean/60)
		}
		if s, ok := result.DailyStats["milk_amount"]; ok {
			fmt.Fprintf(&b, "・平均ミルク摂取量: %.0fml\n", s.Mean)
		}
		if s, ok := result.DailyStats["milk_count"]; ok {
			fmt.Fprintf(&b, "・平均ミルク回数: %.1f回\n", s.Mean)
		}
		if s, ok := result.DailyStats["vomit_count"]; ok {
			fmt.Fprintf(&b, "・平均吐く回数: %.1f回\n", s.Mean)
		}
		b.WriteString("\n")
	}

	corr := result.VomitCorrelation
	if len(corr.Pairs) > 0 || corr.TriggerCount > 0 {
		marker := CategoryLabel(corr.Marker)
		fmt.Fprintf(&b, "■ 「%s」イベントの相関分析\n", marker)
		for _, key := range []string{analyzer.FeatureMilkAmount, analyzer.FeatureSleepMinutes} {
			c, ok := corr.Pairs[key]
			if !ok || !c.Valid {
				continue
			}
			fmt.Fprintf(&b, "・%sと%s回数: %.2f (%s)", labelFor(key), marker, c.R, CorrelationStrength(c.R))
			if c.P < SignificanceLevel {
				b.WriteString(" [統計的に有意]")
			}
			b.WriteString("\n")
		}
		if w, ok := summaryWindow(corr); ok {
			trigger := CategoryLabel(corr.Trigger)
			if corr.Trigger == record.CategoryMilk {
				trigger = "ミルク摂取"
			}
			fmt.Fprintf(&b, "・%s後%d分以内に%s確率: %.1f%%\n", trigger, w.Minutes, marker, w.Rate*100)
		}
		b.WriteString("\n")
	}

	sleep := result.SleepPatterns
	if sleep.Fragmentation != nil || sleep.SleepStartDistribution != nil {
		b.WriteString("■ 睡眠パターン\n")
		if f := sleep.Fragmentation; f != nil {
			fmt.Fprintf(&b, "・睡眠の断片化指数: %.2f (値が大きいほど断片化が大きい)\n", f.Mean)
		}
		if hour, ok := sleep.SleepStartDistribution.Peak(); ok {
			fmt.Fprintf(&b, "・最も多い睡眠開始時間帯: %d時台\n", hour)
		}
		b.WriteString("\n")
	}

	growth := result.Growth
	if growth.Weight != nil || growth.Height != nil || growth.Temperature != nil {
		b.WriteString("■ 成長データ\n")
		if w := growth.Weight; w != nil {
			fmt.Fprintf(&b, "・体重: %.2fkg → %.2fkg (変化: %.2fkg)\n", w.First, w.Last, w.Change)
		}
		if h := growth.Height; h != nil {
			fmt.Fprintf(&b, "・身長: %.1fcm → %.1fcm (変化: %.1fcm)\n", h.First, h.Last, h.Change)
		}
		if n := len(growth.FeverDays); n > 0 {
			fmt.Fprintf(&b, "・発熱日数: %d日\n", n)
		}
	}

	return b.String()
}

// summaryWindow picks the 60 minute follow-on window, or the first one.
func summaryWindow(c analyzer.CorrelationAnalysis) (analyzer.FollowOnWindow, bool) {
	for _, w := range c.FollowOn {
		if w.Window == time.Hour {
			return w, true
		}
	}
	if len(c.FollowOn) > 0 {
		return c.FollowOn[0], true
	}
	return analyzer.FollowOnWindow{}, false
}

func labelFor(key string) string {
	for _, f := range featureLabels {
		if f.key == key {
			return f.label
		}
	}
	return key
}
