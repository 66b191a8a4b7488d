package analysis

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		name string
		cell dataset.Cell
		want float64
		ok   bool
	}{
		{"number", dataset.Number(3.5), 3.5, true},
		{"negative number", dataset.Number(-2), -2, true},
		{"numeric string", dataset.String("42"), 42, true},
		{"unit suffix", dataset.String("12kg"), 12, true},
		{"currency", dataset.String("R$ 1.200"), 1.2, true},
		{"leading prefix only", dataset.String("1-2"), 1, true},
		{"second dot ignored", dataset.String("1.2.3"), 1.2, true},
		{"bare fraction", dataset.String("-.5"), -0.5, true},
		{"trailing dot", dataset.String("5."), 5, true},
		{"exponent letters stripped", dataset.String("1e3"), 13, true},
		{"text", dataset.String("n/a"), 0, false},
		{"double minus", dataset.String("--5"), 0, false},
		{"lone dot", dataset.String("."), 0, false},
		{"empty string", dataset.String(""), 0, false},
		{"overflow", dataset.String(strings.Repeat("9", 400)), 0, false},
		{"bool", dataset.Bool(true), 0, false},
		{"null", dataset.Null(), 0, false},
		{"nan number", dataset.Number(math.NaN()), 0, false},
		{"inf number", dataset.Number(math.Inf(1)), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Coerce(tc.cell)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-12)
			assert.InDelta(t, tc.want, ToNumber(tc.cell), 1e-12)
		})
	}
}

func TestToNumberIsTotalAndFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("0123456789.-eE+ ,$%abc€")
	for i := 0; i < 2000; i++ {
		n := rng.Intn(12)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		v := ToNumber(dataset.String(sb.String()))
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "input %q gave %v", sb.String(), v)
	}
}

func TestNumericSeriesOverflowFromJSON(t *testing.T) {
	var ds dataset.Dataset
	require.NoError(t, json.Unmarshal([]byte(`[{"v":1e999},{"v":4},{"v":"1e999"}]`), &ds))
	assert.Equal(t, []float64{0, 4, 1999}, NumericSeries("v", ds.Rows))
}

func TestClassifyMajorityNumeric(t *testing.T) {
	// 6 of 10 cells numeric: numeric column, the rest coerce to 0.
	var rows []*dataset.Row
	for i := 0; i < 10; i++ {
		c := dataset.Number(float64(i + 1))
		if i%5 == 1 || i%5 == 3 {
			c = dataset.String("n/a")
		}
		rows = append(rows, dataset.NewRow().Set("v", c))
	}
	require.Equal(t, Numeric, Classify("v", rows))
	series := NumericSeries("v", rows)
	assert.Equal(t, []float64{1, 0, 3, 0, 5, 6, 0, 8, 0, 10}, series)
}

func TestClassifyHalfIsCategorical(t *testing.T) {
	rows := []*dataset.Row{
		dataset.NewRow().Set("v", dataset.Number(1)),
		dataset.NewRow().Set("v", dataset.String("x")),
	}
	assert.Equal(t, Categorical, Classify("v", rows))
	assert.Equal(t, Categorical, Classify("v", nil))
}

func TestInferSchemaKeepsColumnOrder(t *testing.T) {
	rows := []*dataset.Row{
		dataset.NewRow().Set("name", dataset.String("a")).Set("qty", dataset.String("3 un")).Set("ok", dataset.Bool(true)),
		dataset.NewRow().Set("name", dataset.String("b")).Set("qty", dataset.Number(4)).Set("ok", dataset.Bool(false)),
	}
	s := InferSchema(rows)
	assert.Equal(t, []string{"name", "qty", "ok"}, s.Columns)
	assert.Equal(t, []string{"qty"}, s.Numeric)
	assert.Equal(t, []string{"name", "ok"}, s.Categorical)
	assert.Equal(t, Numeric, s.Kind("qty"))
	assert.Equal(t, ColumnKind(""), s.Kind("missing"))
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 40.0, s.Sum)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.Equal(t, 4.5, s.Median)
	assert.InDelta(t, 4.0, s.Variance, 1e-12)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.Equal(t, 4.0, s.Q1) // sorted[2]
	assert.Equal(t, 7.0, s.Q3) // sorted[6]
	assert.Equal(t, 3.0, s.IQR)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
}

func TestDescribeNearestRankForFour(t *testing.T) {
	s := Describe([]float64{10, 12, 11, 100})
	assert.Equal(t, 11.5, s.Median)
	assert.Equal(t, 11.0, s.Q1)
	assert.Equal(t, 100.0, s.Q3)
	assert.Equal(t, 89.0, s.IQR)
	assert.Empty(t, IQROutliers([]float64{10, 12, 11, 100}, s))
}

func TestDescribeSingleValue(t *testing.T) {
	s := Describe([]float64{7})
	assert.Equal(t, Statistics{Count: 1, Sum: 7, Mean: 7, Median: 7, Q1: 7, Q3: 7, Min: 7, Max: 7}, s)
}

func TestDescribeNearFloatLimit(t *testing.T) {
	s := Describe([]float64{1e308, 1e308, 1e308})
	assert.True(t, math.IsInf(s.Sum, 1))
	assert.Equal(t, 1e308, s.Mean)
	assert.Equal(t, 1e308, s.Median)
	assert.Equal(t, 0.0, s.Variance)
	assert.Equal(t, 0.0, s.StdDev)

	s = Describe([]float64{1.5e308, 1.7e308})
	assert.InEpsilon(t, 1.6e308, s.Mean, 1e-12)
	assert.InEpsilon(t, 1.6e308, s.Median, 1e-12)
	assert.InEpsilon(t, 0.1e308, s.StdDev, 1e-9)
}

func TestDescribeEmpty(t *testing.T) {
	assert.Equal(t, Statistics{}, Describe(nil))
}

func TestDescribeQuartileOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(40)
		series := make([]float64, n)
		for j := range series {
			series[j] = math.Round(rng.NormFloat64()*100) / 10
		}
		s := Describe(series)
		require.LessOrEqual(t, s.Min, s.Q1, "series %v", series)
		require.LessOrEqual(t, s.Q1, s.Median, "series %v", series)
		require.LessOrEqual(t, s.Median, s.Q3, "series %v", series)
		require.LessOrEqual(t, s.Q3, s.Max, "series %v", series)
	}
}

func TestDescribeDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Describe(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestIQROutliersFlagsFarValue(t *testing.T) {
	series := []float64{10, 12, 11, 13, 11, 12, 100, 10}
	s := Describe(series)
	assert.Equal(t, 11.0, s.Q1)
	assert.Equal(t, 13.0, s.Q3)
	assert.Equal(t, Fence{Lower: 8, Upper: 16}, IQRFence(s))
	assert.Equal(t, []float64{100}, IQROutliers(series, s))
}

func TestSigmaOutliers(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = 10
	}
	series[19] = 1000
	s := Describe(series)
	assert.Equal(t, []float64{1000}, SigmaOutliers(series, s))

	flat := []float64{5, 5, 5}
	assert.Empty(t, SigmaOutliers(flat, Describe(flat)))
}

func TestCoefficientOfVariationAndSkew(t *testing.T) {
	cv, ok := Statistics{Count: 3, Mean: 10, StdDev: 2}.CoefficientOfVariation()
	assert.True(t, ok)
	assert.InDelta(t, 20.0, cv, 1e-12)

	cv, ok = Statistics{Count: 3, Mean: 0, StdDev: 0}.CoefficientOfVariation()
	assert.True(t, ok)
	assert.Equal(t, 0.0, cv)

	_, ok = Statistics{Count: 3, Mean: 0, StdDev: 1}.CoefficientOfVariation()
	assert.False(t, ok)

	assert.Equal(t, 0.0, Statistics{Mean: 3, Median: 1}.Skewness())
	assert.InDelta(t, 1.0, Statistics{Mean: 3, Median: 1, StdDev: 2}.Skewness(), 1e-12)
}
