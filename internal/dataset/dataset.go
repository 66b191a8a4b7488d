// Package dataset holds the in-memory tabular model consumed by the analysis
// engine: loosely-typed cells, insertion-ordered rows and the dataset itself.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Dataset is an ordered sequence of rows plus an optional display name.
type Dataset struct {
	Name string
	Rows []*Row
}

// New returns an empty named dataset.
func New(name string) *Dataset {
	return &Dataset{Name: name}
}

// Append adds a row and returns it for chaining.
func (d *Dataset) Append(r *Row) *Row {
	d.Rows = append(d.Rows, r)
	return r
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ValidRows returns the rows holding at least one non-null, non-empty value,
// in their original order.
func (d *Dataset) ValidRows() []*Row {
	if d == nil {
		return nil
	}
	out := make([]*Row, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.IsValid() {
			out = append(out, r)
		}
	}
	return out
}

// Columns lists the keys of the first row, skipping the empty-string key.
func Columns(rows []*Row) []string {
	if len(rows) == 0 {
		return nil
	}
	keys := rows[0].Keys()
	cols := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		cols = append(cols, k)
	}
	return cols
}

// Fingerprint is a content hash of the rows. Two datasets with the same rows
// (same keys in the same order, same cells) share a fingerprint regardless of name.
func (d *Dataset) Fingerprint() (string, error) {
	h := sha256.New()
	if d != nil {
		enc := json.NewEncoder(h)
		for i, r := range d.Rows {
			if err := enc.Encode(r); err != nil {
				return "", fmt.Errorf("fingerprint row %d: %w", i, err)
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MarshalJSON encodes the dataset as an array of row objects.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	if d == nil || d.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Rows)
}

// UnmarshalJSON decodes an array of row objects.
func (d *Dataset) UnmarshalJSON(b []byte) error {
	var rows []*Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}
	for i, r := range rows {
		if r == nil {
			rows[i] = NewRow()
		}
	}
	d.Rows = rows
	return nil
}
