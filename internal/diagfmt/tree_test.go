package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"bibfmt/internal/parser"
	"bibfmt/internal/source"
)

const treeInput = `% refs
@article{art1,
  title = {Art},
  year = 2003,
}
@string{ams = "AMS"}
`

func load(text string) (*source.FileSet, *source.File) {
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("refs.bib", []byte(text)))
}

func TestFormatDatabasePretty(t *testing.T) {
	fs, sf := load(treeInput)
	db := parser.Parse(sf, parser.Options{})

	var buf bytes.Buffer
	if err := FormatDatabasePretty(&buf, db, sf, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"refs.bib (",
		"] comment ",
		`"% refs"`,
		"] entry 2:1-5:2 @article{art1}",
		`│  ├─ title = "Art" (brace)`,
		`│  └─ year = "2003" (bare)`,
		"] macro ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "└─ [") {
		t.Errorf("last node must use the closing branch:\n%s", out)
	}
}

func TestFormatDatabaseJSON(t *testing.T) {
	fs, sf := load(treeInput)
	db := parser.Parse(sf, parser.Options{})

	var buf bytes.Buffer
	if err := FormatDatabaseJSON(&buf, db, sf, fs); err != nil {
		t.Fatal(err)
	}
	var out DatabaseOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Entries != 1 {
		t.Fatalf("entries = %d", out.Entries)
	}
	var entry *EntryOutput
	for _, n := range out.Nodes {
		if n.Kind == "entry" {
			entry = n.Entry
		}
	}
	if entry == nil || entry.Key != "art1" || !entry.TrailingComma || len(entry.Fields) != 2 {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Fields[1].Delim != "bare" || entry.Fields[1].Value != "2003" {
		t.Fatalf("year field = %+v", entry.Fields[1])
	}
}
