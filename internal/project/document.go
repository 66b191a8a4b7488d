package project

import (
	"time"

	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
)

// Dataset holds registration metadata for a project dataset. Rows are
// never cached; the file is parsed again on every analysis.
type Dataset struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Format      string    `json:"format"`
	SheetName   string    `json:"sheet_name,omitempty"`
	SheetIndex  int       `json:"sheet_index,omitempty"`
	Delimiter   string    `json:"delimiter,omitempty"`
	Rows        int       `json:"rows"`
	ValidRows   int       `json:"valid_rows"`
	Columns     []string  `json:"columns"`
	Fingerprint string    `json:"fingerprint"`
	AddedAt     time.Time `json:"added_at"`
}

// ShortID is the first 8 characters of the ID.
func (d *Dataset) ShortID() string {
	if len(d.ID) <= 8 {
		return d.ID
	}
	return d.ID[:8]
}

// ParserOptions reproduces the options used at registration.
func (d *Dataset) ParserOptions() parser.Options {
	opt := parser.Options{SheetName: d.SheetName, SheetIndex: d.SheetIndex}
	if r := []rune(d.Delimiter); len(r) == 1 {
		opt.Delimiter = r[0]
	}
	return opt
}
