package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

type txtParser struct{}

func (txtParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".txt")
}

func (txtParser) Parse(r io.Reader, name string, opt Options) (*dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return parsePasted(name, string(data), opt.Delimiter)
}

// ParseText loads pasted tabular text, as copied from a spreadsheet or
// typed by hand. The separator is sniffed from the header line.
func ParseText(name, text string) (*dataset.Dataset, error) {
	return parsePasted(name, text, 0)
}

func parsePasted(name, text string, delim rune) (*dataset.Dataset, error) {
	if delim == 0 {
		delim = sniffText(text)
	}
	return readDelimited(strings.NewReader(text), name, delim)
}

// sniffText picks tab when the header line has one, else the more frequent
// of ';' and ','.
func sniffText(text string) rune {
	sc := bufio.NewScanner(strings.NewReader(text))
	var first string
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			first = sc.Text()
			break
		}
	}
	switch {
	case strings.Contains(first, "\t"):
		return '\t'
	case strings.Count(first, ";") > strings.Count(first, ","):
		return ';'
	default:
		return ','
	}
}
