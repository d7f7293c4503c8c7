package dedupe_test

import (
	"strings"
	"testing"

	"bibfmt/internal/bib"
	"bibfmt/internal/dedupe"
	"bibfmt/internal/diag"
	"bibfmt/internal/parser"
)

const dupes = `@article{art1,
  title = {First},
}

@book{Art1,
  title = {Second},
}
@misc{other}
`

func parse(t *testing.T, text string) *bib.Database {
	t.Helper()
	db, _ := parser.ParseText("dupes.bib", text, parser.Options{})
	return db
}

func render(db *bib.Database) string {
	var sb strings.Builder
	for _, n := range db.Nodes {
		if n.Kind == bib.NodeEntry {
			sb.WriteString(n.Entry.Raw)
		} else {
			sb.WriteString(n.Text)
		}
	}
	return sb.String()
}

func TestIgnoreKeepsDuplicates(t *testing.T) {
	db := parse(t, dupes)
	bag := diag.NewBag(16)
	dedupe.Resolve(db, dedupe.Ignore, diag.BagReporter{Bag: bag})

	if got := render(db); got != dupes {
		t.Fatalf("Ignore must not change the database:\n%s", got)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.OrdDuplicateKey || items[0].Severity != diag.SevInfo {
		t.Fatalf("diagnostics = %+v", items)
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "first defined here" {
		t.Fatalf("notes = %+v", items[0].Notes)
	}
}

func TestCommentOutDuplicate(t *testing.T) {
	db := parse(t, dupes)
	bag := diag.NewBag(16)
	dedupe.Resolve(db, dedupe.CommentOut, diag.BagReporter{Bag: bag})

	want := `@article{art1,
  title = {First},
}

% book{Art1,
%   title = {Second},
% }
@misc{other}
`
	if got := render(db); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
	if n := db.Nodes[2]; n.Kind != bib.NodeComment || !n.Suppressed {
		t.Fatalf("duplicate must become a suppressed comment, got %+v", n)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.OrdCommentedOut {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	if n := strings.Count(db.Nodes[2].Text, "@"); n != 0 {
		t.Fatalf("commented duplicate still has %d '@', bibtex would read it as a record", n)
	}
}

func TestCommentOutIsIdempotent(t *testing.T) {
	db := parse(t, dupes)
	dedupe.Resolve(db, dedupe.CommentOut, nil)
	once := render(db)

	db = parse(t, once)
	bag := diag.NewBag(16)
	dedupe.Resolve(db, dedupe.CommentOut, diag.BagReporter{Bag: bag})
	if got := render(db); got != once {
		t.Fatalf("second pass changed output:\n%s", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("second pass must find no duplicates: %+v", bag.Items())
	}
	if len(db.Entries()) != 2 {
		t.Fatalf("commented duplicate re-parsed as an entry")
	}
}

func TestCommentOutSharesLineWithNeighbours(t *testing.T) {
	text := "@misc{a} @misc{a} @misc{b}"
	db := parse(t, text)
	dedupe.Resolve(db, dedupe.CommentOut, nil)
	once := render(db)
	if once != "@misc{a} \n% misc{a}\n @misc{b}" {
		t.Fatalf("got %q", once)
	}

	db = parse(t, once)
	if keys := len(db.Entries()); keys != 2 {
		t.Fatalf("expected 2 entries after re-parse, got %d", keys)
	}
	dedupe.Resolve(db, dedupe.CommentOut, nil)
	if got := render(db); got != once {
		t.Fatalf("not idempotent: %q", got)
	}
}

func TestUnicodeKeysFold(t *testing.T) {
	db := parse(t, "@misc{Straße}\n@misc{STRASSE}\n")
	bag := diag.NewBag(16)
	dedupe.Resolve(db, dedupe.Ignore, diag.BagReporter{Bag: bag})
	if bag.Len() != 1 {
		t.Fatalf("case-folded keys must collide, got %d diagnostics", bag.Len())
	}
}
