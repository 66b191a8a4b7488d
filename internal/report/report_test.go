package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetrics() *analysis.Metrics {
	ds := dataset.New("shop|q1.csv")
	for i, cat := range []string{"tools", "toys", "tools", "food"} {
		ds.Append(dataset.NewRow().
			Set("category", dataset.String(cat)).
			Set("price", dataset.Number(float64(10+i))).
			Set("stock", dataset.Number(float64(40-i*3))))
	}
	return analysis.Compute(ds, analysis.DefaultOptions())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "json": FormatJSON, " Html ": FormatHTML, "table": FormatTable} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Equal(t, ".html", FormatHTML.Extension())
	assert.Equal(t, ".md", FormatMarkdown.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleMetrics(), FormatJSON))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "price", doc["primary_column"])
	assert.EqualValues(t, 4, doc["total_records"])
	assert.NotEmpty(t, doc["insights"])
}

func TestRenderJSONEmptyKeepsInsightsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, analysis.Compute(dataset.New("x"), analysis.DefaultOptions()), FormatJSON))
	assert.Contains(t, buf.String(), `"insights": []`)
}

func TestJSONWritesOverflowedStatisticsAsNull(t *testing.T) {
	ds := dataset.New("huge")
	for i := 0; i < 3; i++ {
		row := dataset.NewRow()
		row.Set("v", dataset.Number(1e308))
		ds.Append(row)
	}
	m := analysis.Compute(ds, analysis.DefaultOptions())
	require.True(t, math.IsInf(m.Primary.Sum, 1))

	b, err := JSON(m)
	require.NoError(t, err)
	require.True(t, json.Valid(b))
	var doc struct {
		Primary  map[string]any `json:"primary"`
		Insights []any          `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Nil(t, doc.Primary["sum"])
	assert.Equal(t, 1e308, doc.Primary["mean"])
	assert.Equal(t, 0.0, doc.Primary["variance"])
	assert.NotEmpty(t, doc.Insights)
	assert.Less(t, strings.Index(string(b), `"total_records"`), strings.Index(string(b), `"insights"`))
}

func TestJSONFiniteMetricsUnchanged(t *testing.T) {
	m := sampleMetrics()
	want, err := json.MarshalIndent(m, "", "  ")
	require.NoError(t, err)
	got, err := JSON(m)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	m := sampleMetrics()
	require.NoError(t, Render(&buf, m, FormatMarkdown))
	assert.Equal(t, m.Markdown(), buf.String())
}

func TestHTML(t *testing.T) {
	b, err := HTML(sampleMetrics())
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Dataset report: shop|q1.csv</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h2>Insights</h2>")
	assert.Contains(t, out, "<td>price</td>")
	assert.Contains(t, out, "<h2>Categories: category</h2>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

func TestDocumentEscapesPipes(t *testing.T) {
	doc := Document(sampleMetrics())
	assert.Contains(t, doc, `# Dataset report: shop\|q1.csv`)
	assert.Contains(t, doc, "| price | stock | ")
	empty := Document(analysis.Compute(nil, analysis.DefaultOptions()))
	assert.Contains(t, empty, "No valid data to display.")
}

func TestTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleMetrics(), FormatTable))
	out := buf.String()
	assert.Contains(t, out, "4 records, 3 columns, 100.0% complete")
	assert.Contains(t, out, "Numeric columns")
	assert.Contains(t, out, "| price")
	assert.Contains(t, out, "Top values: category")
	assert.Contains(t, out, "| tools")
	assert.Contains(t, out, "| success")
	assert.NotContains(t, out, "\x1b[")
}

func TestTableEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, analysis.Compute(dataset.New("void"), analysis.DefaultOptions())))
	assert.Equal(t, "void\nNo valid data to display.\n", buf.String())
}
