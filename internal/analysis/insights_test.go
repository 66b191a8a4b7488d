package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseMetrics() *Metrics {
	return &Metrics{
		TotalRecords:  10,
		Columns:       []string{"v"},
		Completeness:  1,
		PrimaryColumn: "v",
		Primary:       &Statistics{Count: 10, Mean: 100, Median: 100, StdDev: 20},
		Outliers:      []float64{},
		Trend:         &TrendResult{Label: Stable},
	}
}

func ruleNames(ins []Insight) []string {
	out := make([]string, 0, len(ins))
	for _, in := range ins {
		out = append(out, in.Rule)
	}
	return out
}

func TestInsightsHealthyFallback(t *testing.T) {
	ins := GenerateInsights(baseMetrics())
	assert.Equal(t, []string{RuleCompleteness, RuleHealthy, RuleVolume}, ruleNames(ins))
	assert.Equal(t, InsightSuccess, ins[1].Kind)
	assert.Equal(t, "Data looks healthy", ins[1].Title)
	assert.Contains(t, ins[2].Description, "Consider a larger sample")
}

func TestInsightsWarningsSuppressFallback(t *testing.T) {
	m := baseMetrics()
	m.Outliers = []float64{900, 950}
	m.Primary = &Statistics{Count: 10, Mean: 10, Median: 5, StdDev: 6}
	m.Trend = &TrendResult{Label: Decreasing}

	ins := GenerateInsights(m)
	assert.Equal(t, []string{
		RuleCompleteness, RuleOutlierVolume, RuleVariability, RuleTrend, RuleSkewness, RuleVolume,
	}, ruleNames(ins))
	assert.Equal(t, InsightWarning, ins[1].Kind)
	assert.Contains(t, ins[1].Description, "20.0%")
	assert.Equal(t, "High variability in the data", ins[2].Title)
	assert.Equal(t, "Downward trend identified", ins[3].Title)
	assert.Equal(t, "Positively skewed distribution", ins[4].Title)
	for _, in := range ins[1:5] {
		assert.Equal(t, "v", in.Column)
	}
}

func TestInsightsOutlierShareBoundary(t *testing.T) {
	m := baseMetrics()
	m.Outliers = []float64{999}
	assert.NotContains(t, ruleNames(GenerateInsights(m)), RuleOutlierVolume)
}

func TestInsightsLowVariabilityAndGrowth(t *testing.T) {
	m := baseMetrics()
	m.Primary = &Statistics{Count: 10, Mean: 100, Median: 80, StdDev: 10}
	m.Trend = &TrendResult{Label: Increasing}
	ins := GenerateInsights(m)
	require.Equal(t, []string{RuleCompleteness, RuleVariability, RuleTrend, RuleSkewness, RuleVolume}, ruleNames(ins))
	assert.Equal(t, InsightSuccess, ins[1].Kind)
	assert.Equal(t, InsightInfo, ins[2].Kind)
	assert.Equal(t, "Positively skewed distribution", ins[3].Title)
}

func TestInsightsNegativeSkew(t *testing.T) {
	m := baseMetrics()
	m.Primary = &Statistics{Count: 10, Mean: 100, Median: 115, StdDev: 20}
	ins := GenerateInsights(m)
	assert.Equal(t, "Negatively skewed distribution", ins[1].Title)
}

func TestInsightsUndefinedVariabilitySkipped(t *testing.T) {
	m := baseMetrics()
	m.Primary = &Statistics{Count: 10, Mean: 0, Median: 0, StdDev: 5}
	assert.NotContains(t, ruleNames(GenerateInsights(m)), RuleVariability)
}

func TestInsightsCompletenessLevels(t *testing.T) {
	cases := []struct {
		rate float64
		kind InsightKind
	}{
		{1, InsightSuccess},
		{0.91, InsightSuccess},
		{0.9, InsightWarning},
		{0.75, InsightWarning},
		{0.7, InsightError},
		{0, InsightError},
	}
	for _, tc := range cases {
		m := baseMetrics()
		m.Completeness = tc.rate
		ins := GenerateInsights(m)
		assert.Equal(t, tc.kind, ins[0].Kind, "rate %v", tc.rate)
		assert.Equal(t, "Data quality", ins[0].Title)
	}
}

func TestInsightsPerColumnRules(t *testing.T) {
	m := baseMetrics()
	m.Profiles = []ColumnProfile{
		{Column: "a", Stats: Statistics{Count: 20}, Trend: TrendResult{MagnitudePercent: 25}, SigmaOutliers: 1},
		{Column: "b", Stats: Statistics{Count: 20}, Trend: TrendResult{MagnitudePercent: -12}},
		{Column: "c", Stats: Statistics{Count: 20}, Trend: TrendResult{MagnitudePercent: 80}, SigmaOutliers: 4},
	}
	ins := GenerateInsights(m)
	var cols []Insight
	for _, in := range ins {
		if in.Rule == RuleColumnTrend || in.Rule == RuleColumnOutliers {
			cols = append(cols, in)
		}
	}
	require.Len(t, cols, 3)
	assert.Equal(t, Insight{Kind: InsightSuccess, Title: "Trend in a", Description: "Growth of 25.0% observed across the dataset.", Column: "a", Rule: RuleColumnTrend}, cols[0])
	assert.Equal(t, InsightWarning, cols[1].Kind)
	assert.Equal(t, "Decline of 12.0% observed across the dataset.", cols[1].Description)
	assert.Equal(t, "Outliers in a", cols[2].Title)
	assert.Equal(t, "1 extreme values detected (5.0% of the data).", cols[2].Description)
}

func TestInsightsStrongCorrelation(t *testing.T) {
	m := baseMetrics()
	m.Correlation = &CorrMatrix{
		Columns: []string{"x", "y", "z"},
		Values: [][]float64{
			{1, -0.95, 0.3},
			{-0.95, 1, 0.85},
			{0.3, 0.85, 1},
		},
	}
	var got []Insight
	for _, in := range GenerateInsights(m) {
		if in.Rule == RuleCorrelation {
			got = append(got, in)
		}
	}
	require.Len(t, got, 2)
	assert.Equal(t, "Strong correlation: x ~ y", got[0].Title)
	assert.Contains(t, got[0].Description, "opposite")
	assert.Equal(t, "Strong correlation: y ~ z", got[1].Title)
}

func TestInsightsRobustVolume(t *testing.T) {
	m := baseMetrics()
	m.TotalRecords = 1001
	ins := GenerateInsights(m)
	last := ins[len(ins)-1]
	assert.Equal(t, RuleVolume, last.Rule)
	assert.Contains(t, last.Description, "1001 records with 1 columns. Robust volume")
}

func TestApplyRulesEmptyMetrics(t *testing.T) {
	assert.Equal(t, []Insight{}, ApplyRules(&Metrics{}, DefaultRules))
	assert.Equal(t, []Insight{}, ApplyRules(nil, DefaultRules))
}

func TestApplyRulesCustomTable(t *testing.T) {
	custom := Rule{Name: "always", Eval: func(m *Metrics, prior []Insight) []Insight {
		return []Insight{{Kind: InsightInfo, Title: "seen", Description: string(rune('0' + len(prior)))}}
	}}
	ins := ApplyRules(baseMetrics(), []Rule{DefaultRules[0], custom})
	require.Len(t, ins, 2)
	assert.Equal(t, "always", ins[1].Rule)
	assert.Equal(t, "1", ins[1].Description)
}
