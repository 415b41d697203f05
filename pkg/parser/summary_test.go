package parser

import "testing"

func TestExtractSummary(t *testing.T) {
	content := `07:00   ミルク 100ml

母乳合計   左 12分 / 右 8分
ミルク合計   5回 640ml
睡眠合計   13時間5分
おしっこ合計   7回
うんち合計   2回
`
	got, ok := ExtractSummary(content)
	if !ok {
		t.Fatal("ExtractSummary() ok = false")
	}
	want := Totals{
		BreastfeedLeft:  12,
		BreastfeedRight: 8,
		MilkCount:       5,
		MilkAmount:      640,
		SleepMinutes:    785,
		PeeCount:        7,
		PoopCount:       2,
	}
	if got != want {
		t.Errorf("ExtractSummary() = %+v, want %+v", got, want)
	}
}

func TestExtractSummary_Missing(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no marker", content: "07:00   ミルク 100ml\n"},
		{name: "out of order", content: "母乳合計   左 12分 / 右 8分\nうんち合計   2回\nミルク合計   5回 640ml\n"},
		{name: "empty", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSummary(tt.content)
			if ok || got != (Totals{}) {
				t.Errorf("ExtractSummary() = %+v, %v; want zero, false", got, ok)
			}
		})
	}
}
