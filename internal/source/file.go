// Package source owns file contents and maps byte offsets to positions.
package source

import "bytes"

type (
	FileID    uint32
	FileFlags uint8
)

const (
	// FileVirtual: содержимое пришло не с диска (stdin, тесты).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM: при загрузке срезан UTF-8 BOM.
	FileHadBOM
	// FileHadCRLF: на диске были окончания строк CRLF.
	FileHadCRLF
)

// File is one loaded document. Content is LF-normalized and BOM-free;
// Flags remember what RestoreEncoding has to put back.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// LineCol is a 1-based line and a 1-based byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position resolves a byte offset.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Line returns line n (1-based) without its '\n', or "" past the end.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	if start > len(f.Content) {
		return ""
	}
	rest := f.Content[start:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return string(rest)
}

// RestoreEncoding re-applies the CRLF line endings and BOM that loading
// removed.
func (f *File) RestoreEncoding(content []byte) []byte {
	if f.Flags&FileHadCRLF != 0 {
		content = expandCRLF(content)
	}
	if f.Flags&FileHadBOM != 0 {
		content = append(append(make([]byte, 0, len(bom)+len(content)), bom...), content...)
	}
	return content
}
