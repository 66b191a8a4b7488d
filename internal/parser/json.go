package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

type jsonParser struct{}

func (jsonParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Parse expects an array of flat objects. Values keep their JSON types.
func (jsonParser) Parse(r io.Reader, name string, _ Options) (*dataset.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	ds := dataset.New(name)
	if len(bytes.TrimSpace(data)) == 0 {
		return ds, nil
	}
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, &ParseError{Path: name, Line: jsonErrorLine(data, err), Err: err}
	}
	ds.Name = name
	return ds, nil
}

func jsonErrorLine(data []byte, err error) int {
	var se *json.SyntaxError
	if !errors.As(err, &se) {
		return 0
	}
	off := int(se.Offset)
	if off > len(data) {
		off = len(data)
	}
	return bytes.Count(data[:off], []byte("\n")) + 1
}
