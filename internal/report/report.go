// Package report renders analysis metrics for people and programs: the
// bracketed Markdown summary, indented JSON, a standalone HTML page and a
// colored terminal table.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/utils"
)

// Format names an output rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatTable    Format = "table"
)

// ErrUnknownFormat is returned by ParseFormat for unrecognized names.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts a format name, case-insensitively. "md" aliases markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	case "table":
		return FormatTable, nil
	}
	return "", fmt.Errorf("%w: %q (use markdown|json|html|table)", ErrUnknownFormat, s)
}

// Extension is the file suffix used when a report is saved.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	case FormatTable:
		return ".txt"
	default:
		return ".md"
	}
}

// ContentType is the HTTP media type of the rendering.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes m to w in format f.
func Render(w io.Writer, m *analysis.Metrics, f Format) error {
	switch f {
	case FormatJSON:
		b, err := JSON(m)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	case FormatHTML:
		b, err := HTML(m)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatTable:
		return Table(w, m)
	case FormatMarkdown:
		_, err := io.WriteString(w, m.Markdown())
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// JSON returns the indented JSON document of m. Statistics that overflowed
// to an infinity (a sum past the float64 range, say) are written as null.
func JSON(m *analysis.Metrics) ([]byte, error) {
	b, err := utils.PrettyJSON(m)
	var unsupported *json.UnsupportedValueError
	if !errors.As(err, &unsupported) {
		return b, err
	}
	return utils.PrettyJSON(finiteValue(reflect.ValueOf(m)))
}
