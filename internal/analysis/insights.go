package analysis

import (
	"fmt"
	"math"
)

// InsightKind is the severity of an insight.
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightError   InsightKind = "error"
)

// Insight is a human-readable finding about the dataset.
type Insight struct {
	Kind        InsightKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Column      string      `json:"column,omitempty"`
	Rule        string      `json:"rule"`
}

// Rule inspects the metrics, and the insights emitted by earlier rules, and
// returns zero or more new insights.
type Rule struct {
	Name string
	Eval func(m *Metrics, prior []Insight) []Insight
}

// Rule names.
const (
	RuleCompleteness   = "completeness"
	RuleOutlierVolume  = "outlier-volume"
	RuleVariability    = "variability"
	RuleTrend          = "trend"
	RuleSkewness       = "skewness"
	RuleHealthy        = "healthy"
	RuleColumnTrend    = "column-trend"
	RuleColumnOutliers = "column-outliers"
	RuleCorrelation    = "correlation"
	RuleVolume         = "volume"
)

// healthRules are the primary-column checks whose silence triggers RuleHealthy.
var healthRules = map[string]bool{
	RuleOutlierVolume: true,
	RuleVariability:   true,
	RuleTrend:         true,
	RuleSkewness:      true,
}

const (
	perColumnLimit    = 2
	strongPairLimit   = 3
	robustVolume      = 1000
	columnTrendBand   = 10.0
	outlierShareLimit = 0.1
)

// DefaultRules is the ordered insight rule table.
var DefaultRules = []Rule{
	{Name: RuleCompleteness, Eval: completenessRule},
	{Name: RuleOutlierVolume, Eval: outlierVolumeRule},
	{Name: RuleVariability, Eval: variabilityRule},
	{Name: RuleTrend, Eval: trendRule},
	{Name: RuleSkewness, Eval: skewnessRule},
	{Name: RuleHealthy, Eval: healthyRule},
	{Name: RuleColumnTrend, Eval: columnTrendRule},
	{Name: RuleColumnOutliers, Eval: columnOutliersRule},
	{Name: RuleCorrelation, Eval: correlationRule},
	{Name: RuleVolume, Eval: volumeRule},
}

// GenerateInsights evaluates DefaultRules against m.
func GenerateInsights(m *Metrics) []Insight {
	return ApplyRules(m, DefaultRules)
}

// ApplyRules runs rules in order. Empty metrics produce an empty, non-nil list.
func ApplyRules(m *Metrics, rules []Rule) []Insight {
	out := []Insight{}
	if m.Empty() {
		return out
	}
	for _, r := range rules {
		for _, in := range r.Eval(m, out) {
			if in.Rule == "" {
				in.Rule = r.Name
			}
			out = append(out, in)
		}
	}
	return out
}

func completenessRule(m *Metrics, _ []Insight) []Insight {
	rate := m.Completeness
	in := Insight{Title: "Data quality"}
	switch {
	case rate > 0.9:
		in.Kind = InsightSuccess
		in.Description = fmt.Sprintf("Completeness rate: %.1f%%. Excellent data quality!", rate*100)
	case rate > 0.7:
		in.Kind = InsightWarning
		in.Description = fmt.Sprintf("Completeness rate: %.1f%%. Some missing values detected.", rate*100)
	default:
		in.Kind = InsightError
		in.Description = fmt.Sprintf("Completeness rate: %.1f%%. Many missing values; consider cleaning the data.", rate*100)
	}
	return []Insight{in}
}

func outlierVolumeRule(m *Metrics, _ []Insight) []Insight {
	if m.Primary == nil {
		return nil
	}
	n := len(m.Outliers)
	if float64(n) <= float64(m.TotalRecords)*outlierShareLimit {
		return nil
	}
	return []Insight{{
		Kind:  InsightWarning,
		Title: "High number of outliers detected",
		Description: fmt.Sprintf("%d values (%.1f%%) fall outside the expected range. This may indicate data errors or exceptional values.",
			n, float64(n)/float64(m.TotalRecords)*100),
		Column: m.PrimaryColumn,
	}}
}

func variabilityRule(m *Metrics, _ []Insight) []Insight {
	if m.Primary == nil {
		return nil
	}
	cv, ok := m.Primary.CoefficientOfVariation()
	if !ok {
		return nil
	}
	switch {
	case cv > 50:
		return []Insight{{
			Kind:        InsightWarning,
			Title:       "High variability in the data",
			Description: fmt.Sprintf("The coefficient of variation is %.1f%%, indicating wide dispersion of values.", cv),
			Column:      m.PrimaryColumn,
		}}
	case cv < 15:
		return []Insight{{
			Kind:        InsightSuccess,
			Title:       "Low variability in the data",
			Description: fmt.Sprintf("The coefficient of variation is %.1f%%, indicating consistent, homogeneous values.", cv),
			Column:      m.PrimaryColumn,
		}}
	}
	return nil
}

func trendRule(m *Metrics, _ []Insight) []Insight {
	if m.Trend == nil {
		return nil
	}
	switch m.Trend.Label {
	case Increasing:
		return []Insight{{
			Kind:        InsightInfo,
			Title:       "Growth trend identified",
			Description: "The data shows a growth trend over the analyzed period.",
			Column:      m.PrimaryColumn,
		}}
	case Decreasing:
		return []Insight{{
			Kind:        InsightWarning,
			Title:       "Downward trend identified",
			Description: "The data shows a downward trend over the analyzed period.",
			Column:      m.PrimaryColumn,
		}}
	}
	return nil
}

func skewnessRule(m *Metrics, _ []Insight) []Insight {
	if m.Primary == nil {
		return nil
	}
	skew := m.Primary.Skewness()
	if math.Abs(skew) <= 0.5 {
		return nil
	}
	if skew > 0 {
		return []Insight{{
			Kind:        InsightInfo,
			Title:       "Positively skewed distribution",
			Description: "Most values are concentrated below the mean, with a long right tail of a few very high values.",
			Column:      m.PrimaryColumn,
		}}
	}
	return []Insight{{
		Kind:        InsightInfo,
		Title:       "Negatively skewed distribution",
		Description: "Most values are concentrated above the mean, with a long left tail of a few very low values.",
		Column:      m.PrimaryColumn,
	}}
}

func healthyRule(_ *Metrics, prior []Insight) []Insight {
	for _, in := range prior {
		if healthRules[in.Rule] {
			return nil
		}
	}
	return []Insight{{
		Kind:        InsightSuccess,
		Title:       "Data looks healthy",
		Description: "The data shows good quality with no significant anomalies detected.",
	}}
}

func columnTrendRule(m *Metrics, _ []Insight) []Insight {
	var out []Insight
	for _, p := range firstProfiles(m) {
		pct := p.Trend.MagnitudePercent
		if math.Abs(pct) <= columnTrendBand {
			continue
		}
		in := Insight{Title: "Trend in " + p.Column, Column: p.Column}
		if pct > 0 {
			in.Kind = InsightSuccess
			in.Description = fmt.Sprintf("Growth of %.1f%% observed across the dataset.", math.Abs(pct))
		} else {
			in.Kind = InsightWarning
			in.Description = fmt.Sprintf("Decline of %.1f%% observed across the dataset.", math.Abs(pct))
		}
		out = append(out, in)
	}
	return out
}

func columnOutliersRule(m *Metrics, _ []Insight) []Insight {
	var out []Insight
	for _, p := range firstProfiles(m) {
		if p.SigmaOutliers == 0 {
			continue
		}
		out = append(out, Insight{
			Kind:  InsightWarning,
			Title: "Outliers in " + p.Column,
			Description: fmt.Sprintf("%d extreme values detected (%.1f%% of the data).",
				p.SigmaOutliers, float64(p.SigmaOutliers)/float64(p.Stats.Count)*100),
			Column: p.Column,
		})
	}
	return out
}

func correlationRule(m *Metrics, _ []Insight) []Insight {
	var out []Insight
	for _, p := range m.Correlation.Pairs() {
		if p.Strength != StrengthStrong || len(out) == strongPairLimit {
			break
		}
		dir := "together"
		if p.R < 0 {
			dir = "in opposite directions"
		}
		out = append(out, Insight{
			Kind:        InsightInfo,
			Title:       fmt.Sprintf("Strong correlation: %s ~ %s", p.A, p.B),
			Description: fmt.Sprintf("r = %.2f; the two columns move %s.", p.R, dir),
			Column:      p.A,
		})
	}
	return out
}

func volumeRule(m *Metrics, _ []Insight) []Insight {
	note := "Consider a larger sample for more precise analysis."
	if m.TotalRecords > robustVolume {
		note = "Robust volume for statistical analysis."
	}
	return []Insight{{
		Kind:        InsightInfo,
		Title:       "Data volume",
		Description: fmt.Sprintf("Dataset contains %d records with %d columns. %s", m.TotalRecords, len(m.Columns), note),
	}}
}

func firstProfiles(m *Metrics) []ColumnProfile {
	if len(m.Profiles) > perColumnLimit {
		return m.Profiles[:perColumnLimit]
	}
	return m.Profiles
}
