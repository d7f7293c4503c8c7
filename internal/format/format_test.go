package format_test

import (
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"

	"bibfmt/internal/align"
	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
	"bibfmt/internal/format"
	"bibfmt/internal/parser"
)

type pipeline struct {
	style format.StyleSpec
	align *align.Spec
}

// run разбирает текст, применяет выравнивание полей и рендерит.
func (pl pipeline) run(t *testing.T, text string) ([]byte, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(64)
	db, _ := parser.ParseText("input.bib", text, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	for _, e := range db.Entries() {
		if pl.align != nil {
			align.Fields(e, *pl.align)
		}
		if pl.style.AlignEquals {
			align.Padding(e, format.PadUnit(e, pl.style))
		}
	}
	return format.Render(db, pl.style, diag.BagReporter{Bag: bag}), bag
}

func readInput(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/input.bib")
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	return string(b)
}

var goldenCases = map[string]pipeline{
	"braces_two_spaces_trailing": {style: format.StyleSpec{
		Indent:            format.Indent{Spaces: 2},
		Delimiter:         format.DelimBraces,
		TrailingSeparator: format.TrailingAdd,
	}},
	"quotes_upper_tab_aligned": {style: format.StyleSpec{
		Indent:            format.Indent{Tabs: true},
		Delimiter:         format.DelimQuotes,
		Case:              format.CaseUpper,
		TrailingSeparator: format.TrailingRemove,
		AlignEquals:       true,
	}},
	"keep_style_sorted_fields": {align: &align.Spec{Enabled: true, SortAlphabetically: true}},
}

func TestRenderGolden(t *testing.T) {
	input := readInput(t)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	for name, pl := range goldenCases {
		t.Run(name, func(t *testing.T) {
			out, _ := pl.run(t, input)
			g.Assert(t, name, out)
		})
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	input := readInput(t)
	for name, pl := range goldenCases {
		t.Run(name, func(t *testing.T) {
			once, _ := pl.run(t, input)
			twice, _ := pl.run(t, string(once))
			if string(once) != string(twice) {
				t.Fatalf("second pass changed output:\n--- once\n%s\n--- twice\n%s", once, twice)
			}
		})
	}
}

func TestIdentityStyleIsByteExact(t *testing.T) {
	inputs := []string{
		readInput(t),
		"@ARTICLE { weird ,title=\"x\"   ,\n\n year=1 , }\n\n\n",
		"@misc{broken\n@misc{ok}\r\n",
		"",
	}
	for _, in := range inputs {
		out, _ := pipeline{}.run(t, in)
		if string(out) != in {
			t.Errorf("identity render changed %q into %q", in, out)
		}
	}
}

func TestDelimiterConflictKeepsOriginal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		delim format.DelimStyle
		want  string
	}{
		{"quote in braces", `@misc{k, note = {say "x"}}`, format.DelimQuotes, `note = {say "x"}`},
		{"umlaut escape", `@misc{k, author = {G\"odel}}`, format.DelimQuotes, `author = {G\"odel}`},
		{"unbalanced quote", `@misc{k, note = "a } b"}`, format.DelimBraces, `note = "a } b"`},
		{"trailing backslash", `@misc{k, url = {C:\dir\}}`, format.DelimQuotes, `url = {C:\dir\}`},
		{"escaped brace before quote", `@misc{k, note = {\{"x"}}}`, format.DelimQuotes, `note = {\{"x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, bag := pipeline{style: format.StyleSpec{Delimiter: tt.delim}}.run(t, tt.input)
			want := "@misc{k,\n  " + tt.want + "\n}"
			if string(out) != want {
				t.Fatalf("got %q, want %q", out, want)
			}
			items := bag.Items()
			if len(items) != 1 || items[0].Code != diag.FmtDelimiterConflict || items[0].Severity != diag.SevInfo {
				t.Fatalf("diagnostics = %+v", items)
			}
		})
	}
}

func TestBraceInsideQuotesIsSafe(t *testing.T) {
	out, bag := pipeline{style: format.StyleSpec{Delimiter: format.DelimQuotes}}.run(t,
		`@misc{k, title = {The {"}Quote{"} Sign}}`)
	if string(out) != "@misc{k,\n  title = \"The {\"}Quote{\"} Sign\"\n}" {
		t.Fatalf("got %q", out)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestCaseAppliesToTypeOnly(t *testing.T) {
	out, _ := pipeline{style: format.StyleSpec{Case: format.CaseLower}}.run(t, "@ARTICLE{KEY, TITLE = {ABC}}")
	if string(out) != "@article{KEY,\n  TITLE = {ABC}\n}" {
		t.Fatalf("got %q", out)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	db, _ := parser.ParseText("in.bib", readInput(t), parser.Options{})
	good := format.Render(db, goldenCases["braces_two_spaces_trailing"].style, nil)
	if ok, msg := format.CheckRoundTrip(db, good, 16); !ok {
		t.Fatalf("formatted output failed the check: %s", msg)
	}

	lost := []byte("@article{art1, title = {A {Study}}}\n")
	if ok, _ := format.CheckRoundTrip(db, lost, 16); ok {
		t.Fatal("dropping entries must fail the check")
	}
	broken := []byte("@article{art1, title = {A {Study}}\n")
	one, _ := parser.ParseText("one.bib", "@article{art1, title = {A {Study}}}", parser.Options{})
	if ok, _ := format.CheckRoundTrip(one, broken, 16); ok {
		t.Fatal("a record that no longer parses must fail the check")
	}
}

func TestTabIndentPadsWithSpaces(t *testing.T) {
	style := format.StyleSpec{Indent: format.Indent{Tabs: true}, AlignEquals: true}
	out, _ := pipeline{style: style}.run(t, "@misc{k, a = {1}, bbb = {2}}")
	if want := "@misc{k,\n\ta   = {1},\n\tbbb = {2}\n}"; string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestUnknownNodeKindIsCopied(t *testing.T) {
	db := &bib.Database{Nodes: []bib.Node{{Kind: bib.NodeKind(99), Text: "% kept\n"}}}
	if out := format.Render(db, format.StyleSpec{}, nil); string(out) != "% kept\n" {
		t.Fatalf("got %q", out)
	}
}

func TestPadUnit(t *testing.T) {
	e := &bib.Entry{Raw: "@misc{k,\n\ttitle = {x}\n}"}
	tests := []struct {
		style format.StyleSpec
		want  int
	}{
		{format.StyleSpec{Indent: format.Indent{Spaces: 4}}, 4},
		{format.StyleSpec{Indent: format.Indent{Tabs: true}}, 1},
		{format.StyleSpec{}, 1},
	}
	for _, tt := range tests {
		if got := format.PadUnit(e, tt.style); got != tt.want {
			t.Errorf("PadUnit(%v) = %d, want %d", tt.style.Indent, got, tt.want)
		}
	}
	if got := format.PadUnit(&bib.Entry{Raw: "@misc{k, a = 1}"}, format.StyleSpec{}); got != 2 {
		t.Errorf("default indent unit = %d, want 2", got)
	}
}
