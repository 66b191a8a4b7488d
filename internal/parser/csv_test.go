package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseFileCSV_DynamicTyping(t *testing.T) {
	p := writeFile(t, "hop_harvest.csv", "\ufeffdate,plot,alpha_acids,moisture,organic\n"+
		"2024-08-10,A1,12.5%,74,true\n"+
		"2024-08-12,A1,11.8%,,FALSE\n"+
		"2024-08-15,B3,10.2%,68,yes\n")
	ds, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Name != "hop_harvest.csv" || ds.Len() != 3 {
		t.Fatalf("unexpected dataset: name=%q rows=%d", ds.Name, ds.Len())
	}
	first := ds.Rows[0]
	if got := first.Keys(); len(got) != 5 || got[0] != "date" {
		t.Fatalf("header not normalized: %v", got)
	}
	if first.Get("moisture").Kind() != dataset.KindNumber {
		t.Fatalf("moisture should be a number, got %v", first.Get("moisture").Kind())
	}
	if first.Get("alpha_acids").Kind() != dataset.KindString {
		t.Fatalf("alpha_acids should stay text, got %v", first.Get("alpha_acids").Kind())
	}
	if first.Get("organic").Kind() != dataset.KindBool {
		t.Fatalf("organic should be bool, got %v", first.Get("organic").Kind())
	}
	if !ds.Rows[1].Get("moisture").IsNull() {
		t.Fatalf("empty field should be null")
	}
	if ds.Rows[2].Get("organic").Kind() != dataset.KindString {
		t.Fatalf("'yes' should stay text")
	}
}

func TestParseFileTSVAndRaggedRows(t *testing.T) {
	p := writeFile(t, "a.tsv", "name\tqty\tqty\nbolt\t3\t4\t99\nnut\n")
	ds, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d", ds.Len())
	}
	keys := ds.Rows[0].Keys()
	if len(keys) != 3 || keys[2] != "qty_2" {
		t.Fatalf("duplicate header not suffixed: %v", keys)
	}
	if ds.Rows[1].Has("qty") {
		t.Fatalf("missing trailing field should stay absent")
	}
}

func TestParseFileCSV_EmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	ds, err := parser.ParseFile(p, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Len() != 0 {
		t.Fatalf("expected no rows, got %d", ds.Len())
	}
}

func TestParseText_SniffsDelimiter(t *testing.T) {
	cases := map[string]string{
		"tab":       "name\tvalue\nA\t1\nB\t2\n",
		"semicolon": "name;value\nA;1\nB;2\n",
		"comma":     "\nname,value\nA,1\nB,2\n",
	}
	for label, text := range cases {
		ds, err := parser.ParseText("pasted", text)
		if err != nil {
			t.Fatalf("%s: parse: %v", label, err)
		}
		if ds.Len() != 2 {
			t.Fatalf("%s: rows = %d", label, ds.Len())
		}
		if n, ok := ds.Rows[1].Get("value").Num(); !ok || n != 2 {
			t.Fatalf("%s: value = %v", label, ds.Rows[1].Get("value"))
		}
	}
}
