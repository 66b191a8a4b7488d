package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type markdownParser struct{}

func (markdownParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// Parse loads the first GFM pipe table of the document.
func (markdownParser) Parse(r io.Reader, name string, _ Options) (*dataset.Dataset, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var table *east.Table
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*east.Table); ok && entering {
			table = t
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if table == nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("no table found")}
	}

	ds := dataset.New(name)
	var header []string
	for n := table.FirstChild(); n != nil; n = n.NextSibling() {
		cells := cellTexts(n, src)
		switch n.(type) {
		case *east.TableHeader:
			header = normalizeHeader(cells)
		case *east.TableRow:
			ds.Append(buildRow(header, cells))
		}
	}
	return ds, nil
}

func cellTexts(row ast.Node, src []byte) []string {
	var out []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); ok {
			out = append(out, inlineText(c, src))
		}
	}
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
