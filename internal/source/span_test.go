package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Fatalf("Cover = %v", got)
	}
	if other := a.Cover(Span{File: 2, Start: 0, End: 100}); other != a {
		t.Fatalf("spans from different files must not merge, got %v", other)
	}
	if a.Len() != 10 || a.Empty() {
		t.Fatalf("Len/Empty mismatch for %v", a)
	}
}

func TestSpanText(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("t.bib", []byte("@book{key}")))

	if got := (Span{File: f.ID, Start: 1, End: 5}).Text(f); got != "book" {
		t.Fatalf("Text = %q", got)
	}
	if got := (Span{File: f.ID, Start: 8, End: 99}).Text(f); got != "y}" {
		t.Fatalf("clamped Text = %q", got)
	}
	if got := (Span{File: f.ID + 1, Start: 0, End: 1}).Text(f); got != "" {
		t.Fatalf("foreign span must be empty, got %q", got)
	}
}

func TestSpanWithin(t *testing.T) {
	outer := Span{File: 1, Start: 10, End: 20}
	cases := []struct {
		s    Span
		want bool
	}{
		{Span{File: 1, Start: 10, End: 20}, true},
		{Span{File: 1, Start: 12, End: 15}, true},
		{Span{File: 1, Start: 9, End: 15}, false},
		{Span{File: 1, Start: 15, End: 21}, false},
		{Span{File: 2, Start: 12, End: 15}, false},
	}
	for _, c := range cases {
		if got := c.s.Within(outer); got != c.want {
			t.Errorf("%v.Within(%v) = %v, want %v", c.s, outer, got, c.want)
		}
	}
	if (Span{Start: 5, End: 3}).Len() != 0 {
		t.Error("inverted spans must have zero length")
	}
}
