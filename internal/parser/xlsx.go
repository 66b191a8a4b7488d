package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads one sheet: by name, else by 1-based index, else the first.
// The first row is the header; cells are formatted values run through
// dataset.ParseCell.
func (xlsxParser) Parse(r io.Reader, name string, opt Options) (*dataset.Dataset, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer wb.Close()

	sheet, err := pickSheet(wb.GetSheetList(), name, opt)
	if err != nil {
		return nil, err
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}

	dsName := name
	if opt.SheetName != "" || opt.SheetIndex > 1 {
		dsName = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	ds := dataset.New(dsName)
	if len(rows) == 0 {
		return ds, nil
	}
	header := normalizeHeader(rows[0])
	for _, rec := range rows[1:] {
		ds.Append(buildRow(header, rec))
	}
	return ds, nil
}

func pickSheet(sheets []string, name string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", &ParseError{Path: name, Err: fmt.Errorf("workbook has no sheets")}
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, name, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range for workbook '%s' (%d sheets)", idx, name, len(sheets))
	}
	return sheets[idx-1], nil
}
