package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Statistics summarizes one numeric series. Variance is the population
// variance (divisor n). Quartiles use the nearest-rank index floor(n*p) into
// the sorted series, without interpolation.
type Statistics struct {
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stddev"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Describe computes Statistics for series. An empty series yields the zero value.
func Describe(series []float64) Statistics {
	n := len(series)
	if n == 0 {
		return Statistics{}
	}
	sorted := make([]float64, n)
	copy(sorted, series)
	sort.Float64s(sorted)

	sum, _ := stats.Sum(stats.Float64Data(series))
	mean, variance, stddev := meanVariance(series)

	s := Statistics{
		Count:    n,
		Sum:      sum,
		Mean:     mean,
		Median:   midpoint(sorted),
		Variance: variance,
		StdDev:   stddev,
		Q1:       NearestRank(sorted, 0.25),
		Q3:       NearestRank(sorted, 0.75),
		Min:      sorted[0],
		Max:      sorted[n-1],
	}
	s.IQR = s.Q3 - s.Q1
	return s
}

// meanVariance runs Welford's update over the series scaled by its largest
// magnitude, so the mean and standard deviation of finite input stay finite
// even where the plain sum overflows. Variance may still overflow to +Inf.
func meanVariance(series []float64) (mean, variance, stddev float64) {
	scale := 0.0
	for _, x := range series {
		if a := math.Abs(x); a > scale {
			scale = a
		}
	}
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0, 0, 0
	}
	var m, m2 float64
	for i, x := range series {
		x /= scale
		delta := x - m
		m += delta / float64(i+1)
		m2 += delta * (x - m)
	}
	v := m2 / float64(len(series))
	if v < 0 {
		v = 0
	}
	return m * scale, v * scale * scale, math.Sqrt(v) * scale
}

// midpoint is the median of a sorted series; even lengths halve each middle
// value before adding so two values near the float64 limit do not overflow.
func midpoint(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1]/2 + sorted[n/2]/2
}

// NearestRank returns sorted[floor(len*p)], clamped to the last element.
func NearestRank(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// CoefficientOfVariation returns stddev/mean*100. A zero stddev gives 0;
// ok is false when the mean is zero and the ratio is undefined.
func (s Statistics) CoefficientOfVariation() (cv float64, ok bool) {
	if s.Count == 0 {
		return 0, false
	}
	if s.StdDev == 0 {
		return 0, true
	}
	if s.Mean == 0 {
		return 0, false
	}
	return s.StdDev / s.Mean * 100, true
}

// Skewness is the (mean-median)/stddev asymmetry proxy; 0 for a zero stddev.
func (s Statistics) Skewness() float64 {
	if s.StdDev == 0 {
		return 0
	}
	return (s.Mean - s.Median) / s.StdDev
}
