package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the Pearson correlation of two aligned series. Series of
// different length, shorter than two values, or where either side is
// constant yield 0.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if isConstant(x) || isConstant(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// CorrMatrix is a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// Correlate builds the matrix for columns, reading each column's series from
// series. It returns nil when fewer than two columns are given. The diagonal
// is 1, or 0 for a constant column.
func Correlate(columns []string, series map[string][]float64) *CorrMatrix {
	n := len(columns)
	if n < 2 {
		return nil
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		xa := series[columns[a]]
		if len(xa) >= 2 && !isConstant(xa) {
			mat[a][a] = 1
		}
		for b := a + 1; b < n; b++ {
			r := Pearson(xa, series[columns[b]])
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	cols := make([]string, n)
	copy(cols, columns)
	return &CorrMatrix{Columns: cols, Values: mat}
}

// Get returns the coefficient for the (a, b) pair.
func (m *CorrMatrix) Get(a, b string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, false
	}
	return m.Values[ia][ib], true
}

// PairCorr is a single off-diagonal entry of the matrix.
type PairCorr struct {
	A        string   `json:"a"`
	B        string   `json:"b"`
	R        float64  `json:"r"`
	Strength Strength `json:"strength"`
}

// Pairs lists every unordered off-diagonal pair, strongest |r| first. Ties
// keep matrix order.
func (m *CorrMatrix) Pairs() []PairCorr {
	if m == nil {
		return nil
	}
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r, Strength: ClassifyStrength(r)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
	})
	return pairs
}

// Strength is the presentation band of a correlation coefficient.
type Strength string

const (
	StrengthStrong         Strength = "strong"
	StrengthModerateStrong Strength = "moderate-strong"
	StrengthModerate       Strength = "moderate"
	StrengthWeak           Strength = "weak"
)

// ClassifyStrength bands |r| at the fixed 0.8 / 0.6 / 0.4 thresholds.
func ClassifyStrength(r float64) Strength {
	a := math.Abs(r)
	switch {
	case a > 0.8:
		return StrengthStrong
	case a > 0.6:
		return StrengthModerateStrong
	case a > 0.4:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}
