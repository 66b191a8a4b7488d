package analysis

import "math"

// TrendLabel classifies the direction of a series.
type TrendLabel string

const (
	Increasing TrendLabel = "increasing"
	Decreasing TrendLabel = "decreasing"
	Stable     TrendLabel = "stable"
)

const (
	upperBand = 1.1
	lowerBand = 0.9
)

// TrendResult compares the mean of the first half of a series with the mean
// of the second half. MagnitudePercent is the half-mean ratio
// (second-first)/first*100, 0 when the first half averages 0.
type TrendResult struct {
	Label            TrendLabel `json:"label"`
	MagnitudePercent float64    `json:"magnitude_percent"`
	FirstHalfMean    float64    `json:"first_half_mean"`
	SecondHalfMean   float64    `json:"second_half_mean"`
}

// DetectTrend splits series at floor(len/2). The label is increasing when the
// second-half mean exceeds the first by more than 10%, decreasing when it falls
// more than 10% short, and stable otherwise. Series of length <= 2 are always
// stable; their half means and magnitude are still reported when both halves exist.
func DetectTrend(series []float64) TrendResult {
	res := TrendResult{Label: Stable}
	if len(series) < 2 {
		return res
	}
	half := len(series) / 2
	first := runningMean(series[:half])
	second := runningMean(series[half:])
	res.FirstHalfMean = first
	res.SecondHalfMean = second
	res.MagnitudePercent = relativeChange(first, second)
	if len(series) <= 2 {
		return res
	}
	switch {
	case second > first*upperBand:
		res.Label = Increasing
	case second < first*lowerBand:
		res.Label = Decreasing
	}
	return res
}

// ChangePercent is the first-versus-last value change (last-first)/first*100.
// It is a different measure from TrendResult.MagnitudePercent and the two are
// reported side by side. Series shorter than two values, or starting at 0, give 0.
func ChangePercent(series []float64) float64 {
	if len(series) < 2 || series[0] == 0 {
		return 0
	}
	return relativeChange(series[0], series[len(series)-1])
}

// runningMean averages without accumulating a sum, so a run of values near
// the float64 limit keeps a finite mean.
func runningMean(series []float64) float64 {
	var m float64
	for i, x := range series {
		m += (x - m) / float64(i+1)
	}
	return m
}

// relativeChange is (to-from)/from*100, 0 when from is 0 or the result is
// not finite.
func relativeChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	pct := (to - from) / from * 100
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		pct = (to/from - 1) * 100
	}
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return 0
	}
	return pct
}
