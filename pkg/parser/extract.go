package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ccollicutt/babylog/pkg/record"
)

var (
	mlPattern          = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*ml`)
	durationPattern    = regexp.MustCompile(`(\d+)時間(\d+)分`)
	weightKGPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*kg`)
	weightGramPattern  = regexp.MustCompile(`(?:^|[^\d.])(\d+)\s*g(?:$|[^a-z])`)
	heightPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*cm`)
	temperaturePattern = regexp.MustCompile(`(\d+\.\d+)\s*°C`)
	vomitPattern       = regexp.MustCompile(`吐く\s+(極小|小|中|大)`)
)

// vomitLevels maps severity words to an ordinal level. vomitPattern lists
// 極小 before 小 so the longer word wins.
var vomitLevels = map[string]float64{
	"極小": 1,
	"小":  2,
	"中":  3,
	"大":  4,
}

// valueExtractor pulls a quantity out of an event's type or detail text.
// ok is false when the extractor does not apply.
type valueExtractor struct {
	name string

	// category is the event category this extractor measures.
	category record.Category
	extract func(typeText, detail string) (value float64, unit record.Unit, ok bool)
}

// valueExtractors are tried in order; the first that applies wins.
var valueExtractors = []valueExtractor{
	{name: "volume", category: record.CategoryMilk, extract: func(typeText, _ string) (float64, record.Unit, bool) {
		return firstNumber(mlPattern, typeText, record.UnitML)
	}},
	{name: "duration", category: record.CategorySleep, extract: func(typeText, detail string) (float64, record.Unit, bool) {
		for _, s := range []string{detail, typeText} {
			if minutes, ok := ParseDuration(s); ok {
				return float64(minutes), record.UnitMinutes, true
			}
		}
		return 0, "", false
	}},
	{name: "weight", category: record.CategoryWeight, extract: func(typeText, _ string) (float64, record.Unit, bool) {
		if v, u, ok := firstNumber(weightKGPattern, typeText, record.UnitKG); ok {
			return v, u, ok
		}
		return firstNumber(weightGramPattern, typeText, record.UnitGram)
	}},
	{name: "height", category: record.CategoryHeight, extract: func(typeText, _ string) (float64, record.Unit, bool) {
		return firstNumber(heightPattern, typeText, record.UnitCM)
	}},
	{name: "temperature", category: record.CategoryTemperature, extract: func(typeText, _ string) (float64, record.Unit, bool) {
		return firstNumber(temperaturePattern, typeText, record.UnitCelsius)
	}},
	{name: "vomit severity", category: record.CategoryVomit, extract: func(typeText, _ string) (float64, record.Unit, bool) {
		m := vomitPattern.FindStringSubmatch(typeText)
		if m == nil {
			return 0, "", false
		}
		return vomitLevels[m[1]], record.UnitLevel, true
	}},
}

// ExtractValue returns the quantity carried by an event line, or a nil value
// and empty unit when none of the extractors apply.
func ExtractValue(typeText, detail string) (*float64, record.Unit) {
	for _, e := range valueExtractors {
		if v, u, ok := e.extract(typeText, detail); ok {
			return record.Float(v), u
		}
	}
	return nil, record.UnitNone
}

// ExtractValueFor is ExtractValue for an event already known to be of
// category c. The extractor that measures c runs first, so "体重 6.3kg
// (1時間0分)" is a weight in kg and "吐く 中 30ml" a severity of 3.
func ExtractValueFor(c record.Category, typeText, detail string) (*float64, record.Unit) {
	for _, e := range valueExtractors {
		if e.category != c {
			continue
		}
		if v, u, ok := e.extract(typeText, detail); ok {
			return record.Float(v), u
		}
	}
	return ExtractValue(typeText, detail)
}

func firstNumber(re *regexp.Regexp, s string, unit record.Unit) (float64, record.Unit, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return v, unit, true
}

// ParseDuration reads an "H時間M分" duration and returns it in minutes.
func ParseDuration(s string) (int, bool) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, true
}

// FormatDuration renders minutes in the log's "H時間M分" form.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d時間%d分", minutes/60, minutes%60)
}
