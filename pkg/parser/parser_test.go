package parser

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

const twoDayLog = `【ぴよログ】2024年2月
----------
2024/2/10(土)
太郎 (0歳3か月5日)

06:00   起きる (2時間40分)
07:00   ミルク 100ml
09:30   おしっこ
11:00   ミルク 120ml
13:00   ミルク 80ml
13:45   吐く 小
15:00   お風呂前に体重 650g
20:00   寝る
26:15   起きる

母乳合計   左 10分 / 右 5分
ミルク合計   3回 300ml
睡眠合計   10時間30分
おしっこ合計   1回
うんち合計   0回
----------
2024/2/11(日)
太郎 (0歳3か月6日)

03:00   ミルク 100ml
this line is not an event
10:00   うんち
12:00   体重 6.7kg
18:00   体温 37.6°C
----------
`

func TestParse_TwoDays(t *testing.T) {
	res, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if res.Days != 2 {
		t.Errorf("Days = %d, want 2", res.Days)
	}
	if len(res.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(res.Summaries))
	}
	if len(res.Events) != 13 {
		t.Errorf("got %d events, want 13", len(res.Events))
	}
	if len(res.Growth) != 3 {
		t.Errorf("got %d growth records, want 3", len(res.Growth))
	}

	first := res.Events[0]
	if first.Subject != "太郎 (0歳3か月5日)" {
		t.Errorf("Subject = %q", first.Subject)
	}
	if first.Age != (record.Age{Years: 0, Months: 3, Days: 5}) {
		t.Errorf("Age = %+v", first.Age)
	}
	if first.Category != record.CategoryWake || first.Unit != record.UnitMinutes || *first.Value != 160 {
		t.Errorf("first event = %+v", first)
	}
}

func TestParse_SummaryTotals(t *testing.T) {
	res, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := res.Summaries[0]
	want := record.DailySummary{
		Date:            time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Subject:         "太郎 (0歳3か月5日)",
		Age:             record.Age{Months: 3, Days: 5},
		BreastfeedLeft:  10,
		BreastfeedRight: 5,
		MilkCount:       3,
		MilkAmount:      300,
		SleepMinutes:    630,
		PeeCount:        1,
		PoopCount:       0,
		VomitCount:      1,
		VomitLevelSum:   2,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("summary = %+v, want %+v", got, want)
	}

	// day 2 has no totals region
	day2 := res.Summaries[1]
	if day2.MilkCount != 0 || day2.SleepMinutes != 0 || day2.VomitCount != 0 {
		t.Errorf("day 2 summary should be zero, got %+v", day2)
	}
}

func TestParse_OvernightRollover(t *testing.T) {
	res, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var late, nextMorning record.Event
	var sameDay []record.Event
	for _, ev := range res.Events {
		switch {
		case ev.Time == "26:15":
			late = ev
		case ev.Time == "03:00":
			nextMorning = ev
		case ev.Date.Day() == 10:
			sameDay = append(sameDay, ev)
		}
	}

	want := time.Date(2024, 2, 11, 2, 15, 0, 0, time.UTC)
	if !late.Timestamp.Equal(want) {
		t.Fatalf("26:15 resolved to %v, want %v", late.Timestamp, want)
	}
	if !late.Date.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("owning date = %v, want 2024-02-10", late.Date)
	}
	for _, ev := range sameDay {
		if !ev.Timestamp.Before(late.Timestamp) {
			t.Errorf("%s at %v does not sort before the rolled-over event", ev.Time, ev.Timestamp)
		}
	}
	if !late.Timestamp.Before(nextMorning.Timestamp) {
		t.Errorf("rolled-over event %v should sort before %v", late.Timestamp, nextMorning.Timestamp)
	}
}

func TestParse_Growth(t *testing.T) {
	res, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []struct {
		typ   record.GrowthType
		value float64
		unit  record.Unit
	}{
		{record.GrowthWeight, 650, record.UnitGram},
		{record.GrowthWeight, 6.7, record.UnitKG},
		{record.GrowthTemperature, 37.6, record.UnitCelsius},
	}
	for i, w := range want {
		g := res.Growth[i]
		if g.Type != w.typ || g.Value != w.value || g.Unit != w.unit {
			t.Errorf("growth[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func TestParse_UnitsFollowCategory(t *testing.T) {
	doc := `----------
2024/2/10(土)
太郎

07:00   体重 6.2kg
08:00   吐く 中 30ml
09:00   吐く 小
----------
2024/2/11(日)
太郎

07:00   体重 6.3kg (1時間0分)
08:00   体重 (1時間0分)
09:00   吐く 小量
`
	res, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(res.Growth) != 2 {
		t.Fatalf("got %d growth records, want 2: %+v", len(res.Growth), res.Growth)
	}
	for i, want := range []float64{6.2, 6.3} {
		g := res.Growth[i]
		if g.Value != want || g.Unit != record.UnitKG {
			t.Errorf("growth[%d] = %v %q, want %v kg", i, g.Value, g.Unit, want)
		}
	}

	// a weight line carrying only a duration stays an event but is no measurement
	ev := res.Events[4]
	if ev.Category != record.CategoryWeight || ev.Unit != record.UnitMinutes {
		t.Errorf("events[4] = %+v", ev)
	}

	if s := res.Summaries[0]; s.VomitCount != 2 || s.VomitLevelSum != 5 {
		t.Errorf("day 1 vomit = %d / %v, want 2 / 5", s.VomitCount, s.VomitLevelSum)
	}
	if s := res.Summaries[1]; s.VomitCount != 1 || s.VomitLevelSum != 2 {
		t.Errorf("day 2 vomit = %d / %v, want 1 / 2", s.VomitCount, s.VomitLevelSum)
	}
}

func TestParse_LineDefects(t *testing.T) {
	res, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(res.Defects) != 1 {
		t.Fatalf("got %d defects, want 1: %+v", len(res.Defects), res.Defects)
	}
	d := res.Defects[0]
	if d.Kind != DefectLine {
		t.Errorf("Kind = %q, want %q", d.Kind, DefectLine)
	}
	if d.Line != 26 {
		t.Errorf("Line = %d, want 26", d.Line)
	}
	if d.Text != "this line is not an event" {
		t.Errorf("Text = %q", d.Text)
	}
	if d.Date != "2024/2/11(日)" {
		t.Errorf("Date = %q", d.Date)
	}
}

func TestParse_BadBlockSkipped(t *testing.T) {
	doc := `----------
2024/13/40(x)
太郎

07:00   ミルク 100ml
----------
2024/2/10(土)
太郎

07:00   ミルク 100ml
`
	res, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Days != 1 {
		t.Errorf("Days = %d, want 1", res.Days)
	}
	if len(res.Defects) != 1 || res.Defects[0].Kind != DefectBlock || res.Defects[0].Line != 2 {
		t.Errorf("defects = %+v", res.Defects)
	}
}

func TestParse_SummaryTemplateDeviation(t *testing.T) {
	doc := `----------
2024/2/10(土)
太郎

07:00   ミルク 100ml

母乳合計   左 10分 / 右 5分
ミルク合計   たくさん
`
	res, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	s := res.Summaries[0]
	if s.BreastfeedLeft != 0 || s.MilkCount != 0 {
		t.Errorf("deviating summary should default to zero, got %+v", s)
	}
	if len(res.Defects) != 1 || res.Defects[0].Kind != DefectSummary || res.Defects[0].Line != 7 {
		t.Errorf("defects = %+v", res.Defects)
	}
	if len(res.Events) != 1 {
		t.Errorf("got %d events, want 1", len(res.Events))
	}
}

func TestParse_MinuteOutOfRange(t *testing.T) {
	doc := `----------
2024/2/10(土)
太郎

07:75   ミルク 100ml
08:00   ミルク 100ml
`
	res, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("got %d events, want 1", len(res.Events))
	}
	if len(res.Defects) != 1 || res.Defects[0].Line != 5 {
		t.Errorf("defects = %+v", res.Defects)
	}
}

func TestParse_NoDayBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "plain text", doc: "hello\nworld\n"},
		{name: "only bad headers", doc: "----------\nnot a date\nx\n----------\nstill not\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.doc)
			if err == nil {
				t.Fatalf("Parse() = %+v, want error", res)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("error %T is not *ParseError", err)
			}
			if !errors.Is(err, ErrNoDayBlocks) {
				t.Errorf("error does not wrap ErrNoDayBlocks")
			}
		})
	}
}

func TestParse_FullWidthInput(t *testing.T) {
	doc := "----------\r\n２０２４/２/１０（土）\r\n太郎　（０歳３か月５日）\r\n\r\n０７：００　ミルク　１２０ｍｌ\r\n０９：００　体温　３７．８℃\r\n"

	res, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(res.Events), res.Defects)
	}
	milk := res.Events[0]
	if milk.Category != record.CategoryMilk || *milk.Value != 120 || milk.Unit != record.UnitML {
		t.Errorf("milk = %+v", milk)
	}
	temp := res.Events[1]
	if temp.Unit != record.UnitCelsius || *temp.Value != 37.8 {
		t.Errorf("temperature = %+v", temp)
	}
	if res.Summaries[0].Age != (record.Age{Months: 3, Days: 5}) {
		t.Errorf("Age = %+v", res.Summaries[0].Age)
	}
}

func TestParse_WorkersPreserveOrder(t *testing.T) {
	seq, err := Parse(twoDayLog)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	par, err := Parse(twoDayLog, WithWorkers(4))
	if err != nil {
		t.Fatalf("Parse(WithWorkers) error = %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel parse differs from sequential parse")
	}
}
