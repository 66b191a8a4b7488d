package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#222}
table{border-collapse:collapse;margin:1rem 0}
th,td{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}
th{background:#f4f4f4}
</style>
</head>
<body>
`

// HTML converts Document(m) to a standalone page.
func HTML(m *analysis.Metrics) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Document(m)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, pageHead, html.EscapeString(title(m)))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func title(m *analysis.Metrics) string {
	if m == nil || m.Name == "" {
		return "Dataset report"
	}
	return "Dataset report: " + m.Name
}

// Document renders m as GitHub-flavored Markdown with pipe tables.
func Document(m *analysis.Metrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(title(m)))
	if m.Empty() {
		b.WriteString("No valid data to display.\n")
		writeWarnings(&b, m)
		return b.String()
	}
	fmt.Fprintf(&b, "- Records: %d\n- Columns: %d (numeric %d, categorical %d)\n- Completeness: %.1f%%\n\n",
		m.TotalRecords, len(m.Columns), len(m.NumericColumns), len(m.CategoricalColumns), m.Completeness*100)

	if len(m.Insights) > 0 {
		b.WriteString("## Insights\n\n| Kind | Title | Description |\n|---|---|---|\n")
		for _, in := range m.Insights {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", in.Kind, cell(in.Title), cell(in.Description))
		}
		b.WriteString("\n")
	}

	if len(m.Profiles) > 0 {
		b.WriteString("## Numeric columns\n\n| Column | Count | Mean | Median | Std | Min | Max | Trend | Change |\n|---|---:|---:|---:|---:|---:|---:|---|---:|\n")
		for _, p := range m.Profiles {
			s := p.Stats
			fmt.Fprintf(&b, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %s (%+.1f%%) | %+.1f%% |\n",
				cell(p.Column), s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max, p.Trend.Label, p.Trend.MagnitudePercent, p.ChangePercent)
		}
		b.WriteString("\n")
	}

	if m.Primary != nil && m.Fence != nil {
		s := m.Primary
		fmt.Fprintf(&b, "## Primary column: %s\n\n", cell(m.PrimaryColumn))
		fmt.Fprintf(&b, "Quartiles %.4g / %.4g (IQR %.4g). %d outliers outside [%.4g, %.4g].\n\n",
			s.Q1, s.Q3, s.IQR, len(m.Outliers), m.Fence.Lower, m.Fence.Upper)
	}

	if m.Correlation != nil {
		b.WriteString("## Correlations\n\n| A | B | r | Strength |\n|---|---|---:|---|\n")
		for _, p := range m.Correlation.Pairs() {
			fmt.Fprintf(&b, "| %s | %s | %.3f | %s |\n", cell(p.A), cell(p.B), p.R, p.Strength)
		}
		b.WriteString("\n")
	}

	if f := m.Frequencies; f != nil && len(f.Values) > 0 {
		fmt.Fprintf(&b, "## Categories: %s\n\n| Value | Count | Percent |\n|---|---:|---:|\n", cell(f.Column))
		for _, v := range f.Values {
			fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", cell(v.Label), v.Count, v.Percent)
		}
		b.WriteString("\n")
	}
	writeWarnings(&b, m)
	return b.String()
}

func writeWarnings(b *strings.Builder, m *analysis.Metrics) {
	if m == nil || len(m.Warnings) == 0 {
		return
	}
	b.WriteString("## Notes\n\n")
	for _, w := range m.Warnings {
		fmt.Fprintf(b, "- %s\n", cell(w))
	}
}

// cell makes s safe inside a pipe table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
