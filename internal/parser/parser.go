package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

// Options tunes ingestion. Zero values pick sensible defaults.
type Options struct {
	// SheetName selects a workbook sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects a workbook sheet by 1-based position when SheetName is empty.
	SheetIndex int
	// Delimiter overrides the sniffed CSV field separator.
	Delimiter rune
}

// Parser defines a dataset parser implementation.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, name string, opt Options) (*dataset.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported dataset format")

// ParseError reports malformed input. Line is 1-based, 0 when unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Lookup returns the parser registered for filename.
func Lookup(filename string) (Parser, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// Supported reports whether some parser accepts filename.
func Supported(filename string) bool {
	_, err := Lookup(filename)
	return err == nil
}

// ParseFile selects a parser based on filename and loads the dataset.
func ParseFile(path string, opt Options) (*dataset.Dataset, error) {
	p, err := Lookup(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return p.Parse(f, filepath.Base(path), opt)
}

// ParseBytes parses an in-memory upload. name drives parser selection.
func ParseBytes(name string, data []byte, opt Options) (*dataset.Dataset, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(data), name, opt)
}

func init() {
	// Register default parsers
	Register(csvParser{})
	Register(txtParser{})
	Register(jsonParser{})
	Register(xlsxParser{})
	Register(markdownParser{})
	Register(docxParser{})
}
