package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvParser) Parse(r io.Reader, name string, opt Options) (*dataset.Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	return readDelimited(r, name, delim)
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

// readDelimited loads a header-first delimited stream. Every field goes
// through dataset.ParseCell; missing trailing fields stay absent and extra
// fields beyond the header are dropped.
func readDelimited(r io.Reader, name string, delim rune) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	ds := dataset.New(name)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return nil, csvError(name, err)
	}
	header = normalizeHeader(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		ds.Append(buildRow(header, rec))
	}
	return ds, nil
}

func buildRow(header, rec []string) *dataset.Row {
	row := dataset.NewRow()
	for i, h := range header {
		if i >= len(rec) {
			break
		}
		row.Set(h, dataset.ParseCell(rec[i]))
	}
	return row
}

// normalizeHeader strips a UTF-8 BOM and surrounding space and makes
// duplicate names unique with a numeric suffix.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h != "" {
			seen[h]++
			if n := seen[h]; n > 1 {
				h = fmt.Sprintf("%s_%d", h, n)
			}
		}
		out[i] = h
	}
	return out
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: name, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Path: name, Err: err}
}
