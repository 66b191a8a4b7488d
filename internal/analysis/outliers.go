package analysis

import "math"

const (
	iqrFenceFactor = 1.5
	sigmaFactor    = 3.0
)

// Fence is the closed interval outside of which a value is an IQR outlier.
type Fence struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// IQRFence returns [q1-1.5*iqr, q3+1.5*iqr].
func IQRFence(s Statistics) Fence {
	return Fence{
		Lower: s.Q1 - iqrFenceFactor*s.IQR,
		Upper: s.Q3 + iqrFenceFactor*s.IQR,
	}
}

// IQROutliers returns the values of series outside the IQR fence of s, in series order.
func IQROutliers(series []float64, s Statistics) []float64 {
	f := IQRFence(s)
	out := []float64{}
	for _, v := range series {
		if v < f.Lower || v > f.Upper {
			out = append(out, v)
		}
	}
	return out
}

// SigmaOutliers returns the values farther than three standard deviations
// from the mean of s, in series order.
func SigmaOutliers(series []float64, s Statistics) []float64 {
	limit := sigmaFactor * s.StdDev
	out := []float64{}
	for _, v := range series {
		if math.Abs(v-s.Mean) > limit {
			out = append(out, v)
		}
	}
	return out
}
