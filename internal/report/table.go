package report

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var kindColor = map[analysis.InsightKind]*color.Color{
	analysis.InsightSuccess: color.New(color.FgGreen),
	analysis.InsightInfo:    color.New(color.FgCyan),
	analysis.InsightWarning: color.New(color.FgYellow),
	analysis.InsightError:   color.New(color.FgRed),
}

var heading = color.New(color.FgYellow, color.Bold)

// Table writes m as terminal tables. Colors follow color.NoColor, so piped
// output stays plain.
func Table(w io.Writer, m *analysis.Metrics) error {
	name := m.Name
	if name == "" {
		name = "dataset"
	}
	heading.Fprintf(w, "%s\n", name)
	if m.Empty() {
		fmt.Fprintln(w, "No valid data to display.")
		return nil
	}
	fmt.Fprintf(w, "%d records, %d columns, %.1f%% complete\n", m.TotalRecords, len(m.Columns), m.Completeness*100)

	if len(m.Profiles) > 0 {
		heading.Fprintln(w, "\nNumeric columns")
		t := newTable(w, []string{"Column", "Count", "Mean", "Median", "Std", "Min", "Max", "Trend", "Outliers"})
		for _, p := range m.Profiles {
			s := p.Stats
			t.Append([]string{
				p.Column,
				fmt.Sprintf("%d", s.Count),
				fmt.Sprintf("%.4g", s.Mean),
				fmt.Sprintf("%.4g", s.Median),
				fmt.Sprintf("%.4g", s.StdDev),
				fmt.Sprintf("%.4g", s.Min),
				fmt.Sprintf("%.4g", s.Max),
				fmt.Sprintf("%s %+.1f%%", p.Trend.Label, p.Trend.MagnitudePercent),
				fmt.Sprintf("%d", p.IQROutliers),
			})
		}
		t.Render()
	}

	if f := m.Frequencies; f != nil && len(f.Values) > 0 {
		heading.Fprintf(w, "\nTop values: %s\n", f.Column)
		t := newTable(w, []string{"Value", "Count", "Percent"})
		for _, v := range f.Values {
			t.Append([]string{v.Label, fmt.Sprintf("%d", v.Count), fmt.Sprintf("%.1f%%", v.Percent)})
		}
		t.Render()
	}

	if len(m.Insights) > 0 {
		heading.Fprintln(w, "\nInsights")
		t := newTable(w, []string{"Kind", "Title", "Description"})
		for _, in := range m.Insights {
			c, ok := kindColor[in.Kind]
			kind := string(in.Kind)
			if ok {
				kind = c.Sprint(kind)
			}
			t.Append([]string{kind, in.Title, in.Description})
		}
		t.Render()
	}
	for _, warn := range m.Warnings {
		fmt.Fprintf(w, "⚠ Warning: %s\n", warn)
	}
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	return t
}
