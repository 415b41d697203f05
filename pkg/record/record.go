// Package record defines the structured records produced by the log parser
// and consumed by the analysis engine and persistence layers.
package record

import (
	"fmt"
	"time"
)

// Date and timestamp layouts used whenever records are serialized.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Category is the closed set of event kinds recognized in a log.
type Category string

const (
	CategoryWake        Category = "wake"
	CategorySleep       Category = "sleep"
	CategoryMilk        Category = "milk"
	CategoryBreastfeed  Category = "breastfeed"
	CategoryPee         Category = "pee"
	CategoryPoop        Category = "poop"
	CategoryVomit       Category = "vomit"
	CategoryBath        Category = "bath"
	CategoryWeight      Category = "weight"
	CategoryHeight      Category = "height"
	CategoryTemperature Category = "temperature"
	CategoryHospital    Category = "hospital"
	CategoryVaccination Category = "vaccination"
	CategoryFood        Category = "food"
	CategoryMedicine    Category = "medicine"
	CategoryMedical     Category = "medical"
	CategoryExamination Category = "examination"
	CategoryOther       Category = "other"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryWake, CategorySleep, CategoryMilk, CategoryBreastfeed,
	CategoryPee, CategoryPoop, CategoryVomit, CategoryBath,
	CategoryWeight, CategoryHeight, CategoryTemperature, CategoryHospital,
	CategoryVaccination, CategoryFood, CategoryMedicine, CategoryMedical,
	CategoryExamination, CategoryOther,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// IsGrowth reports whether events of this category become growth records.
func (c Category) IsGrowth() bool {
	return c == CategoryWeight || c == CategoryHeight || c == CategoryTemperature
}

// categoryUnits lists the units a category's values may carry. Categories
// not listed accept any unit.
var categoryUnits = map[Category][]Unit{
	CategorySleep:       {UnitMinutes},
	CategoryMilk:        {UnitML},
	CategoryVomit:       {UnitLevel},
	CategoryWeight:      {UnitKG, UnitGram},
	CategoryHeight:      {UnitCM},
	CategoryTemperature: {UnitCelsius},
}

// Accepts reports whether a value in unit u measures this category. A
// weight in minutes or a vomit severity in ml is not a value of its category.
func (c Category) Accepts(u Unit) bool {
	units, ok := categoryUnits[c]
	if !ok {
		return true
	}
	for _, allowed := range units {
		if u == allowed {
			return true
		}
	}
	return false
}

// Unit tags the magnitude carried by an event value.
type Unit string

const (
	UnitNone    Unit = ""
	UnitML      Unit = "ml"
	UnitMinutes Unit = "minutes"
	UnitKG      Unit = "kg"
	UnitGram    Unit = "g"
	UnitCM      Unit = "cm"
	UnitCelsius Unit = "°C"
	UnitLevel   Unit = "level"
)

// ParseUnit validates a unit tag. The empty string is accepted as UnitNone.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitNone, UnitML, UnitMinutes, UnitKG, UnitGram, UnitCM, UnitCelsius, UnitLevel:
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Age is the subject's age as stated on a day header.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

func (a Age) String() string {
	return fmt.Sprintf("%dy%dm%dd", a.Years, a.Months, a.Days)
}

// AgeBetween computes the calendar age at target for someone born on birth.
func AgeBetween(birth, target time.Time) Age {
	years := target.Year() - birth.Year()
	months := int(target.Month()) - int(birth.Month())
	days := target.Day() - birth.Day()

	if days < 0 {
		// borrow the length of the month preceding target
		firstOfMonth := time.Date(target.Year(), target.Month(), 1, 0, 0, 0, 0, target.Location())
		days += firstOfMonth.AddDate(0, 0, -1).Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return Age{Years: years, Months: months, Days: days}
}

// Event is one timestamped occurrence inside a day-block.
type Event struct {
	// Date is the owning day-block's date (midnight UTC).
	Date time.Time `json:"date"`

	// Timestamp is the absolute time, with overnight rollover applied.
	Timestamp time.Time `json:"datetime"`

	// Time is the clock text as written in the source (may exceed 23:59).
	Time string `json:"time"`

	Category  Category `json:"category"`
	RawType   string   `json:"type"`
	RawDetail string   `json:"detail"`

	// Value is nil when the event carries no quantity.
	Value *float64 `json:"value"`
	Unit  Unit     `json:"unit"`

	Subject string `json:"baby_name"`
	Age     Age    `json:"age"`
}

// HasValue reports whether the event carries a quantity.
func (e Event) HasValue() bool {
	return e.Value != nil
}

// DailySummary aggregates one day-block.
type DailySummary struct {
	Date    time.Time `json:"date"`
	Subject string    `json:"baby_name"`
	Age     Age       `json:"age"`

	BreastfeedLeft  int `json:"breastfeed_left"`
	BreastfeedRight int `json:"breastfeed_right"`
	MilkCount       int `json:"milk_count"`
	MilkAmount      int `json:"milk_amount"`
	SleepMinutes    int `json:"sleep_minutes"`
	PeeCount        int `json:"pee_count"`
	PoopCount       int `json:"poop_count"`

	// Derived from the day's events, never parsed from the summary text.
	VomitCount    int     `json:"vomit_count"`
	VomitLevelSum float64 `json:"vomit_level_sum"`
}

// GrowthType is the kind of measurement held by a GrowthRecord.
type GrowthType string

const (
	GrowthWeight      GrowthType = "weight"
	GrowthHeight      GrowthType = "height"
	GrowthTemperature GrowthType = "temperature"
)

// GrowthRecord is one weight, height or temperature measurement.
type GrowthRecord struct {
	Date      time.Time  `json:"date"`
	Timestamp time.Time  `json:"datetime"`
	Type      GrowthType `json:"type"`
	Value     float64    `json:"value"`
	Unit      Unit       `json:"unit"`
	Subject   string     `json:"baby_name"`
	Age       Age        `json:"age"`
}

// Valid reports whether the record's unit matches its type.
func (g GrowthRecord) Valid() bool {
	return Category(g.Type).Accepts(g.Unit)
}

// NormalizeWeight returns the record with gram weights converted to
// kilograms. Non-weight records and kilogram weights are returned unchanged.
func (g GrowthRecord) NormalizeWeight() GrowthRecord {
	if g.Type == GrowthWeight && g.Unit == UnitGram {
		g.Value /= 1000
		g.Unit = UnitKG
	}
	return g
}

// Set bundles the three record sets produced by one parse pass.
type Set struct {
	Events    []Event
	Summaries []DailySummary
	Growth    []GrowthRecord
}

// Empty reports whether the set holds no records at all.
func (s Set) Empty() bool {
	return len(s.Events) == 0 && len(s.Summaries) == 0 && len(s.Growth) == 0
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Float returns a pointer to v, for building optional event values.
func Float(v float64) *float64 {
	return &v
}
