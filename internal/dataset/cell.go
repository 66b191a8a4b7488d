package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Cell is a single loosely-typed value: null, number, string or boolean.
// The zero value is null.
type Cell struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

func Null() Cell             { return Cell{} }
func Number(f float64) Cell  { return Cell{kind: KindNumber, num: f} }
func String(s string) Cell   { return Cell{kind: KindString, str: s} }
func Bool(b bool) Cell       { return Cell{kind: KindBool, b: b} }
func (c Cell) Kind() Kind    { return c.kind }
func (c Cell) IsNull() bool  { return c.kind == KindNull }
func (c Cell) IsEmpty() bool { return c.kind == KindNull || (c.kind == KindString && c.str == "") }

// Num returns the number payload; ok is false for other variants.
func (c Cell) Num() (float64, bool) { return c.num, c.kind == KindNumber }

// Str returns the string payload; ok is false for other variants.
func (c Cell) Str() (string, bool) { return c.str, c.kind == KindString }

// BoolValue returns the boolean payload; ok is false for other variants.
func (c Cell) BoolValue() (bool, bool) { return c.b, c.kind == KindBool }

// String renders the cell the way a spreadsheet user would read it.
// Null renders as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return FormatNumber(c.num)
	case KindString:
		return c.str
	case KindBool:
		if c.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// FormatNumber prints shortest round-trip decimal notation, switching to
// exponent form for very large or very small magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent drops leading zeros from the exponent: 1e-07 becomes 1e-7.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

var floatText = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// ParseCell types a raw text field: "" is null, true/false literals are
// booleans, float-looking text is a number and anything else stays a string.
// Numbers past the float64 range become infinities.
func ParseCell(s string) Cell {
	switch s {
	case "":
		return Null()
	case "true", "TRUE":
		return Bool(true)
	case "false", "FALSE":
		return Bool(false)
	}
	if floatText.MatchString(s) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return Number(f)
		}
	}
	return String(s)
}

// MarshalJSON encodes the cell as its natural JSON scalar.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	case KindString:
		return json.Marshal(c.str)
	case KindBool:
		return json.Marshal(c.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON value. Objects and arrays are kept as
// their compact JSON text.
func (c *Cell) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "" || raw == "null":
		*c = Null()
	case raw == "true":
		*c = Bool(true)
	case raw == "false":
		*c = Bool(false)
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode string cell: %w", err)
		}
		*c = String(s)
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		f, err := strconv.ParseFloat(raw, 64)
		if errors.Is(err, strconv.ErrRange) {
			// out of float64 range: f is +-Inf, which coercion rejects
			err = nil
		}
		if err != nil {
			return fmt.Errorf("decode number cell %q: %w", raw, err)
		}
		*c = Number(f)
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, b); err != nil {
			return fmt.Errorf("decode cell: %w", err)
		}
		*c = String(compact.String())
	}
	return nil
}
