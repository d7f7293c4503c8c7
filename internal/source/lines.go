package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
	bom  = []byte("\xEF\xBB\xBF")
)

// normalizeCRLF сводит "\r\n" к "\n". Одиночный '\r' остаётся как есть.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, crlf) {
		return content, false
	}
	return bytes.ReplaceAll(content, crlf, lf), true
}

// expandCRLF restores "\r\n" for every bare '\n'. Content that already has
// "\r\n" pairs keeps them.
func expandCRLF(content []byte) []byte {
	out := make([]byte, 0, len(content)+bytes.Count(content, lf))
	for {
		i := bytes.IndexByte(content, '\n')
		if i < 0 {
			return append(out, content...)
		}
		out = append(out, content[:i]...)
		if !bytes.HasSuffix(out, []byte{'\r'}) {
			out = append(out, '\r')
		}
		out = append(out, '\n')
		content = content[i+1:]
	}
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, bom)
}

// buildLineIndex returns the offsets of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, lf))
	base := 0
	for {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return idx
		}
		base += i
		idx = append(idx, uint32(base))
		base++
	}
}

// toLineCol maps a byte offset to 1-based line and byte column.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число '\n' строго до off и есть номер строки с нуля
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1}
}

// normalizePath приводит путь к единому виду для индекса FileSet.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
