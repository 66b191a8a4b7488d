package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
	"github.com/KaramelBytes/tabinsight-cli/internal/project"
	"github.com/KaramelBytes/tabinsight-cli/internal/report"
	"github.com/spf13/pflag"
)

// analysisFlags are shared by analyze and analyze-batch.
type analysisFlags struct {
	format     string
	value      string
	label      string
	category   string
	top        int
	maxRows    int
	trend      int
	delimiter  string
	sheetName  string
	sheetIndex int
}

func (a *analysisFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&a.format, "format", "f", "", "output format: markdown|json|html|table (default from config)")
	fs.StringVar(&a.value, "value", "", "primary numeric column (default: first numeric column)")
	fs.StringVar(&a.label, "label", "", "label column for the composition breakdown (default: first column)")
	fs.StringVar(&a.category, "category", "", "column for the frequency table (default: first categorical column)")
	fs.IntVar(&a.top, "top", 0, "number of category values to list (default from config)")
	fs.IntVar(&a.maxRows, "max-rows", 0, "maximum valid rows to analyze (default from config, 0 = unlimited)")
	fs.IntVar(&a.trend, "trend-window", 0, "values of the primary column used for the headline trend (default from config)")
	fs.StringVar(&a.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto-detect if omitted)")
	fs.StringVar(&a.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&a.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// reportFormat resolves --format, then default_format from config.
func (a *analysisFlags) reportFormat() (report.Format, error) {
	if a.format != "" {
		return report.ParseFormat(a.format)
	}
	if cfg != nil {
		return report.ParseFormat(cfg.DefaultFormat)
	}
	return report.FormatMarkdown, nil
}

func (a *analysisFlags) parserOptions() (parser.Options, error) {
	opt := parser.Options{SheetName: a.sheetName, SheetIndex: a.sheetIndex}
	switch a.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", a.delimiter)
	}
	return opt, nil
}

// options layers config, then project defaults, then explicit flags.
func (a *analysisFlags) options(fs *pflag.FlagSet, defaults *project.Defaults) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		opt.CategoryTopN = cfg.CategoryTopN
		opt.CompositionTopN = cfg.CompositionTopN
		opt.TrendWindow = cfg.TrendWindow
		opt.LabelMaxLen = cfg.LabelMaxLen
		opt.MaxRows = cfg.MaxRows
		opt.HistogramBins = cfg.HistogramBins
	}
	if defaults != nil {
		opt.ValueColumn = defaults.ValueColumn
		opt.LabelColumn = defaults.LabelColumn
		opt.CategoryColumn = defaults.CategoryColumn
	}
	if v := strings.TrimSpace(a.value); v != "" {
		opt.ValueColumn = v
	}
	if v := strings.TrimSpace(a.label); v != "" {
		opt.LabelColumn = v
	}
	if v := strings.TrimSpace(a.category); v != "" {
		opt.CategoryColumn = v
	}
	for _, f := range []struct {
		name string
		val  int
		dst  *int
	}{
		{"top", a.top, &opt.CategoryTopN},
		{"max-rows", a.maxRows, &opt.MaxRows},
		{"trend-window", a.trend, &opt.TrendWindow},
	} {
		if !fs.Changed(f.name) {
			continue
		}
		if f.val < 0 {
			return opt, fmt.Errorf("--%s must be non-negative", f.name)
		}
		*f.dst = f.val
	}
	return opt, nil
}

// defaultCacheEntries applies when no configuration could be loaded.
const defaultCacheEntries = 64
