package analysis

import (
	"math"
	"regexp"
	"strconv"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

var (
	nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)
	leadingFloat    = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// Coerce reads a cell as a finite float. Numbers pass through; strings are
// stripped of everything except digits, '.' and '-' and the longest leading
// decimal is parsed ("R$ 1.200" -> 1.2, "12kg" -> 12). Any other cell, or a
// string with no leading decimal, fails.
func Coerce(c dataset.Cell) (float64, bool) {
	switch c.Kind() {
	case dataset.KindNumber:
		f, _ := c.Num()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case dataset.KindString:
		s, _ := c.Str()
		return coerceString(s)
	default:
		return 0, false
	}
}

func coerceString(s string) (float64, bool) {
	stripped := nonNumericChars.ReplaceAllString(s, "")
	m := leadingFloat.FindString(stripped)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ToNumber is Coerce with failures mapped to 0 so numeric series stay aligned
// with row order.
func ToNumber(c dataset.Cell) float64 {
	f, ok := Coerce(c)
	if !ok {
		return 0
	}
	return f
}

// NumericSeries coerces column across rows, substituting 0 for unreadable cells.
func NumericSeries(column string, rows []*dataset.Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = ToNumber(r.Get(column))
	}
	return out
}
