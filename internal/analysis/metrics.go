// Package analysis turns a tabular dataset into descriptive metrics and
// rule-based insights. Every function here is a pure transformation of its
// inputs; nothing is cached or persisted.
package analysis

import (
	"fmt"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

// Options controls metric computation.
type Options struct {
	// MaxRows limits the valid rows analyzed; 0 means unlimited.
	MaxRows int
	// ValueColumn selects the primary numeric column. Empty picks the first numeric column.
	ValueColumn string
	// LabelColumn names rows for composition breakdowns. Empty picks the first column.
	LabelColumn string
	// CategoryColumn selects the frequency table column. Empty picks the first categorical column.
	CategoryColumn string
	CategoryTopN   int
	// CompositionTopN bounds the label/value breakdown.
	CompositionTopN int
	// TrendWindow limits the headline trend to the first N primary values; 0 uses all.
	TrendWindow         int
	LabelMaxLen         int
	CompositionLabelMax int
	HistogramBins       int
	// Rules overrides the insight rule table; nil uses DefaultRules.
	Rules []Rule `json:"-"`
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		CategoryTopN:        10,
		CompositionTopN:     6,
		TrendWindow:         15,
		LabelMaxLen:         30,
		CompositionLabelMax: 20,
		HistogramBins:       10,
	}
}

// ColumnProfile is the per-column view of a numeric column.
type ColumnProfile struct {
	Column        string      `json:"column"`
	Stats         Statistics  `json:"stats"`
	Trend         TrendResult `json:"trend"`
	Direction     string      `json:"direction"` // up|down, second-half mean vs first
	ChangePercent float64     `json:"change_percent"`
	IQROutliers   int         `json:"iqr_outliers"`
	SigmaOutliers int         `json:"sigma_outliers"`
}

// Metrics is the full analysis of one dataset. A zero TotalRecords marks the
// empty result: no valid rows, no statistics and no insights.
type Metrics struct {
	Name               string          `json:"name,omitempty"`
	Rows               int             `json:"rows"`
	TotalRecords       int             `json:"total_records"`
	Columns            []string        `json:"columns"`
	NumericColumns     []string        `json:"numeric_columns"`
	CategoricalColumns []string        `json:"categorical_columns"`
	Completeness       float64         `json:"completeness"`
	Profiles           []ColumnProfile `json:"profiles"`
	LabelColumn        string          `json:"label_column,omitempty"`
	PrimaryColumn      string          `json:"primary_column,omitempty"`
	Primary            *Statistics     `json:"primary,omitempty"`
	Fence              *Fence          `json:"fence,omitempty"`
	Outliers           []float64       `json:"outliers,omitempty"`
	Trend              *TrendResult    `json:"trend,omitempty"`
	Histogram          []Bin           `json:"histogram,omitempty"`
	Composition        []Slice         `json:"composition,omitempty"`
	Correlation        *CorrMatrix     `json:"correlation,omitempty"`
	Frequencies        *FrequencyTable `json:"frequencies,omitempty"`
	Insights           []Insight       `json:"insights"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// Empty reports whether the dataset had no valid rows.
func (m *Metrics) Empty() bool { return m == nil || m.TotalRecords == 0 }

// Profile returns the profile of a numeric column.
func (m *Metrics) Profile(column string) (ColumnProfile, bool) {
	if m == nil {
		return ColumnProfile{}, false
	}
	for _, p := range m.Profiles {
		if p.Column == column {
			return p, true
		}
	}
	return ColumnProfile{}, false
}

// Compute analyzes ds. It never fails: data problems resolve to safe defaults
// and an empty or nil dataset yields the empty Metrics.
func Compute(ds *dataset.Dataset, opt Options) *Metrics {
	m := &Metrics{Insights: []Insight{}}
	if ds == nil {
		return m
	}
	m.Name = ds.Name
	m.Rows = ds.Len()
	valid := ds.ValidRows()
	if opt.MaxRows > 0 && len(valid) > opt.MaxRows {
		m.Warnings = append(m.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", opt.MaxRows, len(valid)))
		valid = valid[:opt.MaxRows]
	}
	if len(valid) == 0 {
		return m
	}
	m.TotalRecords = len(valid)

	schema := InferSchema(valid)
	m.Columns = schema.Columns
	m.NumericColumns = schema.Numeric
	m.CategoricalColumns = schema.Categorical
	m.Completeness = completeness(ds.Rows[0])

	series := make(map[string][]float64, len(schema.Numeric))
	for _, col := range schema.Numeric {
		s := NumericSeries(col, valid)
		series[col] = s
		m.Profiles = append(m.Profiles, profile(col, s))
	}

	m.PrimaryColumn = m.pickPrimary(opt.ValueColumn)
	if len(m.Columns) > 0 {
		m.LabelColumn = m.Columns[0]
	}
	if opt.LabelColumn != "" {
		if schema.Kind(opt.LabelColumn) == "" {
			m.Warnings = append(m.Warnings, fmt.Sprintf("label column %q not found", opt.LabelColumn))
		} else {
			m.LabelColumn = opt.LabelColumn
		}
	}

	if m.PrimaryColumn != "" {
		s := series[m.PrimaryColumn]
		st, _ := m.Profile(m.PrimaryColumn)
		stats := st.Stats
		fence := IQRFence(stats)
		m.Primary = &stats
		m.Fence = &fence
		m.Outliers = IQROutliers(s, stats)
		window := s
		if opt.TrendWindow > 0 && len(window) > opt.TrendWindow {
			window = window[:opt.TrendWindow]
		}
		tr := DetectTrend(window)
		m.Trend = &tr
		m.Histogram = Histogram(s, opt.HistogramBins)
		if m.LabelColumn != "" {
			m.Composition = Composition(m.LabelColumn, m.PrimaryColumn, valid, opt.CompositionTopN, opt.CompositionLabelMax)
		}
	}

	m.Correlation = Correlate(schema.Numeric, series)

	if col := m.pickCategory(opt.CategoryColumn, schema); col != "" {
		m.Frequencies = Frequencies(col, valid, opt.CategoryTopN, opt.LabelMaxLen)
	}

	rules := opt.Rules
	if rules == nil {
		rules = DefaultRules
	}
	m.Insights = ApplyRules(m, rules)
	return m
}

func profile(col string, s []float64) ColumnProfile {
	st := Describe(s)
	tr := DetectTrend(s)
	dir := "down"
	if tr.SecondHalfMean > tr.FirstHalfMean {
		dir = "up"
	}
	return ColumnProfile{
		Column:        col,
		Stats:         st,
		Trend:         tr,
		Direction:     dir,
		ChangePercent: ChangePercent(s),
		IQROutliers:   len(IQROutliers(s, st)),
		SigmaOutliers: len(SigmaOutliers(s, st)),
	}
}

func (m *Metrics) pickPrimary(requested string) string {
	if requested != "" {
		for _, c := range m.NumericColumns {
			if c == requested {
				return c
			}
		}
		m.Warnings = append(m.Warnings, fmt.Sprintf("value column %q is not numeric; using first numeric column", requested))
	}
	if len(m.NumericColumns) > 0 {
		return m.NumericColumns[0]
	}
	return ""
}

func (m *Metrics) pickCategory(requested string, schema Schema) string {
	if requested != "" {
		if schema.Kind(requested) != "" {
			return requested
		}
		m.Warnings = append(m.Warnings, fmt.Sprintf("category column %q not found", requested))
	}
	if len(schema.Categorical) > 0 {
		return schema.Categorical[0]
	}
	return ""
}

// completeness is the share of non-null fields in r, the dataset's first
// row as ingested (blank or not). A nil row counts as 0.
func completeness(r *dataset.Row) float64 {
	keys := r.Keys()
	if len(keys) == 0 {
		return 0
	}
	n := 0
	for _, k := range keys {
		if !r.Get(k).IsNull() {
			n++
		}
	}
	return float64(n) / float64(len(keys))
}
