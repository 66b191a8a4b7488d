package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
)

type docxParser struct{}

func (docxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".docx")
}

// Parse loads the first table of a Word document. The first table row is
// the header. Nested tables are flattened into the enclosing cell text.
func (docxParser) Parse(r io.Reader, name string, _ Options) (*dataset.Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	// DOCX is a zip archive; the body lives in word/document.xml
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("open docx: %w", err)}
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return nil, &ParseError{Path: name, Err: fmt.Errorf("open document.xml: %w", err)}
			}
			b, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return nil, &ParseError{Path: name, Err: fmt.Errorf("read document.xml: %w", err)}
			}
			docXML = b
			break
		}
	}
	if len(docXML) == 0 {
		return nil, &ParseError{Path: name, Err: errors.New("document.xml not found in DOCX")}
	}
	rows, err := firstWordTable(docXML)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	ds := dataset.New(name)
	if len(rows) == 0 {
		return nil, &ParseError{Path: name, Err: errors.New("no table found")}
	}
	header := normalizeHeader(rows[0])
	for _, rec := range rows[1:] {
		ds.Append(buildRow(header, rec))
	}
	return ds, nil
}

// firstWordTable returns the cell texts of the first w:tbl, row by row.
func firstWordTable(doc []byte) ([][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var (
		rows   [][]string
		row    []string
		cell   strings.Builder
		depth  int // w:tbl nesting
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				depth++
			case "tr":
				if depth == 1 {
					row = nil
				}
			case "tc":
				if depth == 1 {
					cell.Reset()
				}
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					cell.WriteByte(' ')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				depth--
				if depth == 0 {
					return rows, nil
				}
			case "tr":
				if depth == 1 {
					rows = append(rows, row)
				}
			case "tc":
				if depth == 1 {
					row = append(row, strings.TrimSpace(cell.String()))
				}
			case "p":
				if depth > 0 && cell.Len() > 0 {
					cell.WriteByte(' ')
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cell.Write(t)
			}
		}
	}
}
