// Package stats provides the descriptive statistics and correlation kernel
// shared by every analysis in babylog.
package stats

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary is the count/moment/five-number shape used by every descriptive
// statistic in the result tree. A zero-count Summary marshals as {}.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Empty reports whether the summary describes no observations.
func (s Summary) Empty() bool {
	return s.Count == 0
}

// Describe summarizes values. Std uses the sample (n-1) estimator and is NaN
// for fewer than two observations; percentiles interpolate linearly between
// closest ranks.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    percentileSorted(sorted, 25),
		Median: percentileSorted(sorted, 50),
		P75:    percentileSorted(sorted, 75),
	}
	if len(sorted) < 2 {
		s.Mean = sorted[0]
		s.Std = math.NaN()
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	return s
}

// DescribeInts is Describe over integer observations.
func DescribeInts(values []int) Summary {
	return Describe(Floats(values))
}

// Floats converts integer observations to float64.
func Floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation. It returns NaN for empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Sum adds values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

type summaryJSON struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	P25    *float64 `json:"25%,omitempty"`
	Median *float64 `json:"50%,omitempty"`
	P75    *float64 `json:"75%,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// MarshalJSON emits {} for an empty summary and drops non-finite fields.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Empty() {
		return []byte("{}"), nil
	}
	return json.Marshal(summaryJSON{
		Count:  s.Count,
		Mean:   finite(s.Mean),
		Std:    finite(s.Std),
		Min:    finite(s.Min),
		P25:    finite(s.P25),
		Median: finite(s.Median),
		P75:    finite(s.P75),
		Max:    finite(s.Max),
	})
}

// UnmarshalJSON accepts the shape produced by MarshalJSON. Missing fields
// decode as NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw summaryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Summary{
		Count:  raw.Count,
		Mean:   orNaN(raw.Mean),
		Std:    orNaN(raw.Std),
		Min:    orNaN(raw.Min),
		P25:    orNaN(raw.P25),
		Median: orNaN(raw.Median),
		P75:    orNaN(raw.P75),
		Max:    orNaN(raw.Max),
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Correlation is a Pearson coefficient with its two-sided p-value.
// Valid is false when the coefficient is undefined (fewer than two paired
// observations, or a constant series); an invalid Correlation marshals as {}.
type Correlation struct {
	N     int
	R     float64
	P     float64
	Valid bool
}

// Pearson correlates two equally long series.
func Pearson(x, y []float64) Correlation {
	n := len(x)
	if n != len(y) || n < 2 {
		return Correlation{N: n}
	}

	_, sx := stat.MeanStdDev(x, nil)
	_, sy := stat.MeanStdDev(y, nil)
	if sx == 0 || sy == 0 || math.IsNaN(sx) || math.IsNaN(sy) {
		return Correlation{N: n}
	}

	r := stat.Correlation(x, y, nil)
	r = math.Max(-1, math.Min(1, r))

	return Correlation{N: n, R: r, P: pValue(r, n), Valid: true}
}

// pValue is the two-sided p-value for H0: rho == 0 under a Student t
// distribution with n-2 degrees of freedom.
func pValue(r float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return math.Max(0, math.Min(1, p))
}

type correlationJSON struct {
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	N           int     `json:"n"`
}

// MarshalJSON emits {} for an undefined correlation.
func (c Correlation) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("{}"), nil
	}
	return json.Marshal(correlationJSON{Correlation: c.R, PValue: c.P, N: c.N})
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (c *Correlation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*c = Correlation{}
		return nil
	}
	var v correlationJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Correlation{N: v.N, R: v.Correlation, P: v.PValue, Valid: true}
	return nil
}
