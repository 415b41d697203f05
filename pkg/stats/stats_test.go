package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944, s.Std, 1e-6)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.P25, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	assert.InDelta(t, 3.25, s.P75, 1e-9)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_ = Describe(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestDescribe_SingleValue(t *testing.T) {
	s := Describe([]float64{7})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 7.0, s.Mean)
	assert.True(t, math.IsNaN(s.Std))
	assert.Equal(t, 7.0, s.Median)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "std")
	assert.Contains(t, string(data), `"50%":7`)
}

func TestDescribe_Empty(t *testing.T) {
	s := Describe(nil)
	assert.True(t, s.Empty())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestSummary_JSONRoundTrip(t *testing.T) {
	s := DescribeInts([]int{10, 20, 30})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back Summary
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	assert.Equal(t, 15.0, Percentile(values, 0))
	assert.Equal(t, 35.0, Percentile(values, 50))
	assert.Equal(t, 50.0, Percentile(values, 100))
	assert.InDelta(t, 29.0, Percentile(values, 40), 1e-9)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestPearson(t *testing.T) {
	c := Pearson([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 5, 4, 5})

	require.True(t, c.Valid)
	assert.Equal(t, 5, c.N)
	assert.InDelta(t, 0.7745967, c.R, 1e-6)
	assert.InDelta(t, 0.124, c.P, 0.005)
}

func TestPearson_Perfect(t *testing.T) {
	c := Pearson([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.True(t, c.Valid)
	assert.InDelta(t, 1.0, c.R, 1e-12)
	assert.Equal(t, 0.0, c.P)

	c = Pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
	require.True(t, c.Valid)
	assert.InDelta(t, -1.0, c.R, 1e-12)
}

func TestPearson_TwoPoints(t *testing.T) {
	c := Pearson([]float64{1, 2}, []float64{5, 3})
	require.True(t, c.Valid)
	assert.Equal(t, 1.0, c.P)
}

func TestPearson_Undefined(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"empty", nil, nil},
		{"one point", []float64{1}, []float64{2}},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"constant series", []float64{1, 2, 3}, []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Pearson(tt.x, tt.y)
			assert.False(t, c.Valid)

			data, err := json.Marshal(c)
			require.NoError(t, err)
			assert.JSONEq(t, `{}`, string(data))
		})
	}
}

func TestCorrelation_JSONRoundTrip(t *testing.T) {
	c := Pearson([]float64{1, 2, 3, 4}, []float64{1, 3, 2, 4})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back Correlation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &back))
	assert.False(t, back.Valid)
}
