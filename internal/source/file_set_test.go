package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAddKeepsEveryVersion(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("refs.bib", []byte("@book{a}"), 0)
	id2 := fs.Add("refs.bib", []byte("@book{b}"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}

	// по пути доступна последняя версия
	f, ok := fs.Lookup("refs.bib")
	if !ok || f.ID != id2 {
		t.Fatalf("expected latest version %d, got %+v (ok=%v)", id2, f, ok)
	}
	if got := string(fs.Get(id1).Content); got != "@book{a}" {
		t.Fatalf("first version lost: %q", got)
	}
	if fs.Get(42) != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.bib", []byte("a\nb\n")))

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("expected %d line breaks, got %v", len(want), file.LineIdx)
	}
	for i, v := range want {
		if file.LineIdx[i] != v {
			t.Fatalf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], v)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.bib", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestFileLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l.bib", []byte("first\nsecond\nthird")))

	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.Line(n); got != want {
			t.Errorf("Line(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadRestoresEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.bib")
	raw := []byte("\xEF\xBB\xBF@misc{x,\r\n  title = {T}\r\n}\r\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadCRLF == 0 || f.Flags&FileHadBOM == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if string(f.Content) != "@misc{x,\n  title = {T}\n}\n" {
		t.Fatalf("unexpected normalized content %q", f.Content)
	}
	if got := f.RestoreEncoding(f.Content); string(got) != string(raw) {
		t.Fatalf("RestoreEncoding mismatch:\nwant %q\ngot  %q", raw, got)
	}
}
