package parser

import (
	"testing"

	"github.com/ccollicutt/babylog/pkg/record"
)

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name     string
		typeText string
		detail   string
		want     *float64
		wantUnit record.Unit
	}{
		{name: "milk volume", typeText: "ミルク 100ml", want: record.Float(100), wantUnit: record.UnitML},
		{name: "duration in detail", typeText: "起きる", detail: "2時間40分", want: record.Float(160), wantUnit: record.UnitMinutes},
		{name: "duration in type", typeText: "寝る 1時間5分", want: record.Float(65), wantUnit: record.UnitMinutes},
		{name: "weight kg", typeText: "体重 6.7kg", want: record.Float(6.7), wantUnit: record.UnitKG},
		{name: "weight grams", typeText: "体重 650g", want: record.Float(650), wantUnit: record.UnitGram},
		{name: "height", typeText: "身長 61.5cm", want: record.Float(61.5), wantUnit: record.UnitCM},
		{name: "temperature", typeText: "体温 36.8°C", want: record.Float(36.8), wantUnit: record.UnitCelsius},
		{name: "integer temperature ignored", typeText: "体温 37°C", want: nil, wantUnit: record.UnitNone},
		{name: "no value", typeText: "おしっこ", want: nil, wantUnit: record.UnitNone},
		{name: "milligrams are not grams", typeText: "くすり 5mg", want: nil, wantUnit: record.UnitNone},
		{name: "volume wins over duration", typeText: "ミルク 100ml", detail: "0時間10分", want: record.Float(100), wantUnit: record.UnitML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unit := ExtractValue(tt.typeText, tt.detail)
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("value = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("value = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("value = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestExtractValue_VomitSeverity(t *testing.T) {
	tests := []struct {
		word string
		want float64
	}{
		{"極小", 1},
		{"小", 2},
		{"中", 3},
		{"大", 4},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, unit := ExtractValue("吐く "+tt.word, "")
			if got == nil || *got != tt.want || unit != record.UnitLevel {
				t.Errorf("ExtractValue(吐く %s) = %v %q, want %v level", tt.word, got, unit, tt.want)
			}
		})
	}

	got, unit := ExtractValue("吐く 多め", "")
	if got != nil || unit != record.UnitNone {
		t.Errorf("unknown severity should yield no value, got %v %q", got, unit)
	}

	got, unit = ExtractValue("吐く 小量", "")
	if got == nil || *got != 2 || unit != record.UnitLevel {
		t.Errorf("ExtractValue(吐く 小量) = %v %q, want 2 level", got, unit)
	}
}

func TestExtractValueFor(t *testing.T) {
	tests := []struct {
		name     string
		category record.Category
		typeText string
		detail   string
		want     *float64
		wantUnit record.Unit
	}{
		{name: "weight before duration", category: record.CategoryWeight, typeText: "体重 6.3kg", detail: "1時間0分", want: record.Float(6.3), wantUnit: record.UnitKG},
		{name: "severity before volume", category: record.CategoryVomit, typeText: "吐く 中 30ml", want: record.Float(3), wantUnit: record.UnitLevel},
		{name: "height before duration", category: record.CategoryHeight, typeText: "身長 61.5cm", detail: "0時間5分", want: record.Float(61.5), wantUnit: record.UnitCM},
		{name: "falls back to ordered table", category: record.CategoryWake, typeText: "起きる", detail: "2時間40分", want: record.Float(160), wantUnit: record.UnitMinutes},
		{name: "no value", category: record.CategoryPee, typeText: "おしっこ", want: nil, wantUnit: record.UnitNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unit := ExtractValueFor(tt.category, tt.typeText, tt.detail)
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("value = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("value = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("value = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	if got := FormatDuration(630); got != "10時間30分" {
		t.Errorf("FormatDuration(630) = %q", got)
	}
	if got := FormatDuration(-5); got != "0時間0分" {
		t.Errorf("FormatDuration(-5) = %q", got)
	}
	minutes, ok := ParseDuration(FormatDuration(125))
	if !ok || minutes != 125 {
		t.Errorf("ParseDuration(FormatDuration(125)) = %d, %v", minutes, ok)
	}
	if _, ok := ParseDuration("45分"); ok {
		t.Error("ParseDuration without hours should not match")
	}
}
