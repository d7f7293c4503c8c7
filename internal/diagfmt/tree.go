package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"bibfmt/internal/bib"
	"bibfmt/internal/source"
)

const previewWidth = 48

// NodeOutput is the JSON form of one database node.
type NodeOutput struct {
	Kind       string       `json:"kind"`
	Location   Location     `json:"location"`
	Text       string       `json:"text,omitempty"`
	Suppressed bool         `json:"suppressed,omitempty"`
	Entry      *EntryOutput `json:"entry,omitempty"`
}

type EntryOutput struct {
	Type          string        `json:"type"`
	Key           string        `json:"key"`
	TrailingComma bool          `json:"trailing_comma,omitempty"`
	Fields        []FieldOutput `json:"fields"`
}

type FieldOutput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Delim string `json:"delim"`
}

// DatabaseOutput is the root of `bibfmt parse --format json`.
type DatabaseOutput struct {
	File    string       `json:"file"`
	Entries int          `json:"entries"`
	Nodes   []NodeOutput `json:"nodes"`
}

// FormatDatabasePretty печатает дерево узлов базы.
func FormatDatabasePretty(w io.Writer, db *bib.Database, f *source.File, fs *source.FileSet) error {
	if db == nil || f == nil {
		return fmt.Errorf("nothing to print")
	}
	fmt.Fprintf(w, "%s (%d nodes, %d entries)\n", formatPath(f, fs, PathModeAuto), len(db.Nodes), db.Count(bib.NodeEntry))

	for i := range db.Nodes {
		n := &db.Nodes[i]
		branch, prefix := "├─ ", "│  "
		if i == len(db.Nodes)-1 {
			branch, prefix = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s[%d] %s %s", branch, i, n.Kind, formatSpan(n.Span, fs))
		if n.Kind != bib.NodeEntry {
			fmt.Fprintf(w, " %s\n", preview(n.Text))
			continue
		}

		e := n.Entry
		fmt.Fprintf(w, " @%s{%s}\n", e.Type, e.Key)
		for j, fld := range e.Fields {
			fb := "├─ "
			if j == len(e.Fields)-1 {
				fb = "└─ "
			}
			fmt.Fprintf(w, "%s%s%s = %s (%s)\n", prefix, fb, fld.Name, preview(fld.Value.Text), fld.Value.Delim)
		}
	}
	return nil
}

// FormatDatabaseJSON пишет базу в JSON.
func FormatDatabaseJSON(w io.Writer, db *bib.Database, f *source.File, fs *source.FileSet) error {
	if db == nil || f == nil {
		return fmt.Errorf("nothing to print")
	}
	out := DatabaseOutput{
		File:    formatPath(f, fs, PathModeAuto),
		Entries: db.Count(bib.NodeEntry),
		Nodes:   make([]NodeOutput, 0, len(db.Nodes)),
	}
	loc := locator{fs: fs, mode: PathModeAuto, pos: true}
	for i := range db.Nodes {
		n := &db.Nodes[i]
		no := NodeOutput{
			Kind:       n.Kind.String(),
			Location:   loc.at(n.Span),
			Suppressed: n.Suppressed,
		}
		if n.Kind == bib.NodeEntry {
			e := n.Entry
			eo := &EntryOutput{
				Type:          e.Type,
				Key:           e.Key,
				TrailingComma: e.TrailingSeparator,
				Fields:        make([]FieldOutput, len(e.Fields)),
			}
			for j, fld := range e.Fields {
				eo.Fields[j] = FieldOutput{Name: fld.Name, Value: fld.Value.Text, Delim: fld.Value.Delim.String()}
			}
			no.Entry = eo
		} else {
			no.Text = n.Text
		}
		out.Nodes = append(out.Nodes, no)
	}
	return encode(w, out)
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// preview: однострочное усечённое представление текста.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strconv.Quote(runewidth.Truncate(s, previewWidth, "..."))
}
