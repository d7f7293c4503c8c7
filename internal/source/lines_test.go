package source

import "testing"

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed || string(got) != "a\nb\rc\n" {
		t.Fatalf("normalizeCRLF = %q (changed=%v)", got, changed)
	}
	if back := expandCRLF(got); string(back) != "a\r\nb\rc\r\n" {
		t.Fatalf("expandCRLF = %q", back)
	}
}

func TestRemoveBOM(t *testing.T) {
	if got, ok := removeBOM([]byte("\xEF\xBB\xBFx")); !ok || string(got) != "x" {
		t.Fatalf("removeBOM = %q, %v", got, ok)
	}
	if got, ok := removeBOM([]byte("xy")); ok || string(got) != "xy" {
		t.Fatalf("removeBOM on plain input = %q, %v", got, ok)
	}
}

func TestLineIndexAndLineCol(t *testing.T) {
	content := []byte("ab\n\ncd\n")
	idx := buildLineIndex(content)
	if len(idx) != 3 || idx[0] != 2 || idx[1] != 3 || idx[2] != 6 {
		t.Fatalf("buildLineIndex = %v", idx)
	}
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}},
		{3, LineCol{Line: 2, Col: 1}},
		{5, LineCol{Line: 3, Col: 2}},
		{7, LineCol{Line: 4, Col: 1}},
	}
	for _, c := range cases {
		if got := toLineCol(idx, c.off); got != c.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", c.off, got, c.want)
		}
	}
	if got := toLineCol(nil, 4); got != (LineCol{Line: 1, Col: 5}) {
		t.Errorf("toLineCol without newlines = %+v", got)
	}
}
