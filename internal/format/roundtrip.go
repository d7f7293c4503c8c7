package format

import (
	"fmt"
	"strings"

	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
	"bibfmt/internal/parser"
)

// CheckRoundTrip re-parses formatted and verifies that it holds the same
// entries as want, in the same order, with the same fields and payloads.
// Delimiters and layout may differ.
func CheckRoundTrip(want *bib.Database, formatted []byte, maxDiag int) (ok bool, msg string) {
	bag := diag.NewBag(maxDiag)
	got, _ := parser.ParseText("roundtrip.bib", string(formatted), parser.Options{Reporter: diag.BagReporter{Bag: bag}})

	if a, b := degraded(want), degraded(got); b > a {
		detail := ""
		if bag.Len() > 0 {
			detail = ": " + bag.Items()[0].Message
		}
		return false, fmt.Sprintf("fmt-check: %d records no longer parse%s", b-a, detail)
	}
	we, ge := want.Entries(), got.Entries()
	if len(we) != len(ge) {
		return false, fmt.Sprintf("fmt-check: %d entries before, %d after", len(we), len(ge))
	}
	for i := range we {
		if msg, same := sameEntry(we[i], ge[i]); !same {
			return false, "fmt-check: " + msg
		}
	}
	return true, "fmt-check: OK"
}

func sameEntry(a, b *bib.Entry) (string, bool) {
	if a.Key != b.Key || !bib.EqualFold(a.Type, b.Type) {
		return fmt.Sprintf("entry %q became %q", a.Key, b.Key), false
	}
	if len(a.Fields) != len(b.Fields) {
		return fmt.Sprintf("entry %q: %d fields before, %d after", a.Key, len(a.Fields), len(b.Fields)), false
	}
	for i := range a.Fields {
		fa, fb := a.Fields[i], b.Fields[i]
		if fa.Name != fb.Name || fa.Value.Text != fb.Value.Text {
			return fmt.Sprintf("entry %q: field %q changed", a.Key, fa.Name), false
		}
	}
	return "", true
}

// degraded считает записи, сохранённые как сырой текст.
func degraded(db *bib.Database) int {
	n := 0
	for _, node := range db.Nodes {
		if node.Kind == bib.NodeRaw && strings.HasPrefix(node.Text, "@") {
			n++
		}
	}
	return n
}
