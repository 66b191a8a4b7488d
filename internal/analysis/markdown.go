package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact report suitable for terminals or standalone docs.
func (m *Metrics) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if m.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", m.Name))
	}
	if m.Empty() {
		b.WriteString("No valid data to display.\n")
		writeNotes(&b, m.Warnings)
		return b.String()
	}
	if m.Rows > m.TotalRecords {
		b.WriteString(fmt.Sprintf("Records: %d valid (of %d rows)\n", m.TotalRecords, m.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Records: %d\n", m.TotalRecords))
	}
	b.WriteString(fmt.Sprintf("Columns: %d (numeric %d, categorical %d)\n", len(m.Columns), len(m.NumericColumns), len(m.CategoricalColumns)))
	b.WriteString(fmt.Sprintf("Completeness: %.1f%%\n", m.Completeness*100))

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range m.Columns {
		kind := Categorical
		p, ok := m.Profile(c)
		if ok {
			kind = Numeric
		}
		b.WriteString(fmt.Sprintf("- %s: %s", safeName(c), kind))
		if ok {
			s := p.Stats
			b.WriteString(fmt.Sprintf(": mean %.4g, median %.4g, std %.4g, min %.4g, max %.4g", s.Mean, s.Median, s.StdDev, s.Min, s.Max))
			b.WriteString(fmt.Sprintf("; trend %s (%+.1f%%), change %+.1f%%", p.Trend.Label, p.Trend.MagnitudePercent, p.ChangePercent))
			if p.SigmaOutliers > 0 {
				b.WriteString(fmt.Sprintf("; %d beyond 3σ", p.SigmaOutliers))
			}
		}
		b.WriteString("\n")
	}

	if m.Primary != nil {
		s := m.Primary
		b.WriteString(fmt.Sprintf("\n[PRIMARY COLUMN: %s]\n", safeName(m.PrimaryColumn)))
		b.WriteString(fmt.Sprintf("- count %d, sum %.4g, mean %.4g, median %.4g\n", s.Count, s.Sum, s.Mean, s.Median))
		b.WriteString(fmt.Sprintf("- variance %.4g, std %.4g\n", s.Variance, s.StdDev))
		b.WriteString(fmt.Sprintf("- q1 %.4g, q3 %.4g, iqr %.4g, min %.4g, max %.4g\n", s.Q1, s.Q3, s.IQR, s.Min, s.Max))
		if m.Fence != nil {
			b.WriteString(fmt.Sprintf("- outliers: %d outside [%.4g, %.4g]\n", len(m.Outliers), m.Fence.Lower, m.Fence.Upper))
		}
		if cv, ok := s.CoefficientOfVariation(); ok {
			b.WriteString(fmt.Sprintf("- coefficient of variation %.1f%%, skewness %.2f\n", cv, s.Skewness()))
		}
		if m.Trend != nil {
			b.WriteString(fmt.Sprintf("- trend: %s (%+.1f%%)\n", m.Trend.Label, m.Trend.MagnitudePercent))
		}
	}

	if len(m.Histogram) > 0 {
		b.WriteString("\n[DISTRIBUTION]\n")
		for _, bin := range m.Histogram {
			b.WriteString(fmt.Sprintf("- %.1f-%.1f: %d\n", bin.Start, bin.End, bin.Count))
		}
	}

	if len(m.Composition) > 0 {
		b.WriteString(fmt.Sprintf("\n[COMPOSITION: %s by %s]\n", safeName(m.PrimaryColumn), safeName(m.LabelColumn)))
		for _, s := range m.Composition {
			b.WriteString(fmt.Sprintf("- %s: %.4g\n", safeVal(s.Label), s.Value))
		}
	}

	if m.Correlation != nil && len(m.Correlation.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := m.Correlation.Pairs()
		maxp := 10
		if len(pairs) < maxp {
			maxp = len(pairs)
		}
		for _, p := range pairs[:maxp] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (%s)\n", p.A, p.B, p.R, p.Strength))
		}
	}

	if f := m.Frequencies; f != nil && len(f.Values) > 0 {
		b.WriteString(fmt.Sprintf("\n[CATEGORIES: %s]\n", safeName(f.Column)))
		for _, v := range f.Values {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(v.Label), v.Count, v.Percent))
		}
		if f.Distinct > len(f.Values) {
			b.WriteString(fmt.Sprintf("- unique=%d\n", f.Distinct))
		}
	}

	if len(m.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, in := range m.Insights {
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", in.Kind, in.Title, in.Description))
		}
	}
	writeNotes(&b, m.Warnings)
	return b.String()
}

func writeNotes(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n[NOTES]\n")
	for _, w := range warnings {
		b.WriteString("- ")
		b.WriteString(w)
		b.WriteString("\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
