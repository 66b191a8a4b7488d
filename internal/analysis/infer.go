package analysis

import "github.com/KaramelBytes/tabinsight-cli/internal/dataset"

// ColumnKind is the inferred type of a column.
type ColumnKind string

const (
	Numeric     ColumnKind = "numeric"
	Categorical ColumnKind = "categorical"
)

// numericRatio is the share of coercible cells above which a column is numeric.
const numericRatio = 0.5

// Classify returns Numeric when more than half of rows hold a cell that
// coerces to a finite number, Categorical otherwise (including no rows).
func Classify(column string, rows []*dataset.Row) ColumnKind {
	if len(rows) == 0 {
		return Categorical
	}
	n := 0
	for _, r := range rows {
		if _, ok := Coerce(r.Get(column)); ok {
			n++
		}
	}
	if float64(n) > float64(len(rows))*numericRatio {
		return Numeric
	}
	return Categorical
}

// Schema is the column classification of a set of valid rows.
type Schema struct {
	Columns     []string
	Numeric     []string
	Categorical []string
}

// Kind returns the classification of column, or "" when unknown.
func (s Schema) Kind(column string) ColumnKind {
	for _, c := range s.Numeric {
		if c == column {
			return Numeric
		}
	}
	for _, c := range s.Categorical {
		if c == column {
			return Categorical
		}
	}
	return ""
}

// InferSchema classifies every column of rows, keeping first-row column order.
func InferSchema(rows []*dataset.Row) Schema {
	s := Schema{Columns: dataset.Columns(rows)}
	for _, col := range s.Columns {
		if Classify(col, rows) == Numeric {
			s.Numeric = append(s.Numeric, col)
		} else {
			s.Categorical = append(s.Categorical, col)
		}
	}
	return s
}
