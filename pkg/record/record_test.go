package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeight(t *testing.T) {
	kg := GrowthRecord{Type: GrowthWeight, Value: 6.7, Unit: UnitKG}
	assert.Equal(t, kg, kg.NormalizeWeight(), "kilograms must be a no-op")
	assert.Equal(t, kg, kg.NormalizeWeight().NormalizeWeight())

	g := GrowthRecord{Type: GrowthWeight, Value: 650, Unit: UnitGram}
	got := g.NormalizeWeight()
	assert.InDelta(t, 0.65, got.Value, 1e-9)
	assert.Equal(t, UnitKG, got.Unit)
	assert.Equal(t, UnitGram, g.Unit, "receiver must not be mutated")

	temp := GrowthRecord{Type: GrowthTemperature, Value: 37.2, Unit: UnitCelsius}
	assert.Equal(t, temp, temp.NormalizeWeight())
}

func TestAgeBetween(t *testing.T) {
	tests := []struct {
		name   string
		birth  time.Time
		target time.Time
		want   Age
	}{
		{
			name:   "same day",
			birth:  time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
			target: time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
			want:   Age{},
		},
		{
			name:   "months and days",
			birth:  time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
			target: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			want:   Age{Years: 0, Months: 6, Days: 5},
		},
		{
			name:   "day borrow from previous month",
			birth:  time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC),
			target: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			want:   Age{Years: 0, Months: 6, Days: 14},
		},
		{
			name:   "over a year",
			birth:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			target: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want:   Age{Years: 2, Months: 1, Days: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeBetween(tt.birth, tt.target))
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("nap")
	assert.Error(t, err)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("°C")
	require.NoError(t, err)
	assert.Equal(t, UnitCelsius, u)

	u, err = ParseUnit("")
	require.NoError(t, err)
	assert.Equal(t, UnitNone, u)

	_, err = ParseUnit("oz")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 2, 10, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameDay(a, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, SameDay(a, a.Add(time.Minute)))
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), Day(a))
}

func TestCategoryAccepts(t *testing.T) {
	tests := []struct {
		category Category
		unit     Unit
		want     bool
	}{
		{CategoryWeight, UnitKG, true},
		{CategoryWeight, UnitGram, true},
		{CategoryWeight, UnitMinutes, false},
		{CategoryHeight, UnitCM, true},
		{CategoryHeight, UnitKG, false},
		{CategoryTemperature, UnitCelsius, true},
		{CategoryVomit, UnitLevel, true},
		{CategoryVomit, UnitML, false},
		{CategoryMilk, UnitML, true},
		{CategorySleep, UnitMinutes, true},
		{CategoryWake, UnitMinutes, true},
		{CategoryOther, UnitML, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.category.Accepts(tt.unit), "%s in %q", tt.category, tt.unit)
	}

	assert.True(t, GrowthRecord{Type: GrowthWeight, Unit: UnitGram}.Valid())
	assert.False(t, GrowthRecord{Type: GrowthWeight, Unit: UnitMinutes}.Valid())
}
