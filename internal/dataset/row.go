package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Row maps column names to cells and remembers the order in which columns
// were first set.
type Row struct {
	keys  []string
	cells map[string]Cell
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{cells: make(map[string]Cell)}
}

// Set assigns a cell. A new key is appended to the key order; an existing
// key keeps its position.
func (r *Row) Set(key string, c Cell) *Row {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, ok := r.cells[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = c
	return r
}

// Get returns the cell for key, or null when the key is absent.
func (r *Row) Get(key string) Cell {
	if r == nil || r.cells == nil {
		return Null()
	}
	return r.cells[key]
}

// Has reports whether key was set on the row.
func (r *Row) Has(key string) bool {
	if r == nil || r.cells == nil {
		return false
	}
	_, ok := r.cells[key]
	return ok
}

// Keys returns the insertion-ordered keys. The slice must not be modified.
func (r *Row) Keys() []string {
	if r == nil {
		return nil
	}
	return r.keys
}

func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// IsValid reports whether at least one field is neither null nor the empty string.
func (r *Row) IsValid() bool {
	for _, k := range r.Keys() {
		if !r.cells[k].IsEmpty() {
			return true
		}
	}
	return false
}

// MarshalJSON writes the row as an object in key order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		cb, err := r.cells[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the document's key order.
func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("decode row: expected JSON object")
	}
	*r = Row{cells: make(map[string]Cell)}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode row key: %w", err)
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("decode row: unexpected key token %v", kt)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode row value for %q: %w", key, err)
		}
		var c Cell
		if err := c.UnmarshalJSON(raw); err != nil {
			return err
		}
		r.Set(key, c)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	return nil
}
