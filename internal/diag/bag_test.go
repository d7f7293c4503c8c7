package diag

import (
	"testing"

	"bibfmt/internal/source"
)

func TestBagLimitAndSeverity(t *testing.T) {
	b := NewBag(2)
	b.Add(New(SevInfo, FmtDelimiterConflict, source.Span{Start: 5, End: 6}, "kept"))
	b.Add(New(SevWarning, ParseUnterminatedEntry, source.Span{Start: 1, End: 2}, "bad"))
	if b.Add(New(SevError, IOLoadFileError, source.Span{}, "dropped")) {
		t.Fatalf("bag must refuse items past its cap")
	}
	if b.Len() != 2 || !b.HasWarnings() || b.HasErrors() {
		t.Fatalf("unexpected bag state: len=%d warn=%v err=%v", b.Len(), b.HasWarnings(), b.HasErrors())
	}
	if got := len(b.Filter(SevWarning)); got != 1 {
		t.Fatalf("Filter(SevWarning) = %d items, want 1", got)
	}

	b.Sort()
	if b.Items()[0].Code != ParseUnterminatedEntry {
		t.Fatalf("Sort must order by primary offset, got %v first", b.Items()[0].Code)
	}
}

func TestBagDedupAndMerge(t *testing.T) {
	sp := source.Span{Start: 3, End: 9}
	a := NewBag(1)
	a.Add(New(SevInfo, OrdDuplicateKey, sp, "dup1"))

	other := NewBag(4)
	other.Add(New(SevInfo, OrdDuplicateKey, sp, "dup1 again"))
	other.Add(New(SevInfo, OrdCommentedOut, sp, "commented"))

	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("Merge must grow the cap, got %d items", a.Len())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", a.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		ParseUnterminatedEntry: "BIB1003",
		FmtDelimiterConflict:   "BIB2001",
		OrdDuplicateKey:        "BIB3001",
		CfgInvalid:             "CFG4001",
		IOLoadFileError:        "IO5001",
		Code(9999):             "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown codes must fall back to the generic title")
	}
}

func TestDiagnosticToReporter(t *testing.T) {
	bag := NewBag(8)
	base := Warning(ParseBadKey, source.Span{Start: 1, End: 4}, "bad key")
	noted := base.WithNote(source.Span{Start: 0, End: 1}, "entry starts here")
	noted.To(BagReporter{Bag: bag})
	noted.To(nil)
	noted.To(Nop)

	if bag.Len() != 1 {
		t.Fatalf("expected one reported item, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 || len(base.Notes) != 0 {
		t.Fatalf("WithNote must not alias the receiver: %+v / %+v", bag.Items()[0], base)
	}

	var seen []Code
	Error(IOLoadFileError, source.Span{}, "x").To(ReporterFunc(func(d Diagnostic) { seen = append(seen, d.Code) }))
	if len(seen) != 1 || seen[0] != IOLoadFileError {
		t.Fatalf("ReporterFunc saw %v", seen)
	}
}
