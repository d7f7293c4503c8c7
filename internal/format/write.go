package format

import "bytes"

// buffer накапливает вывод Render. Отступ в записи BibTeX один уровень,
// поэтому он передаётся в fieldLine явно.
type buffer struct {
	b []byte
}

func newBuffer(capacity int) *buffer {
	return &buffer{b: make([]byte, 0, capacity)}
}

func (w *buffer) Bytes() []byte { return w.b }

func (w *buffer) str(s string) { w.b = append(w.b, s...) }

func (w *buffer) char(c byte) { w.b = append(w.b, c) }

// header writes "@type{key" and, when the entry has fields, ",\n".
func (w *buffer) header(typ, key string, hasFields bool) {
	w.char('@')
	w.str(typ)
	w.char('{')
	w.str(key)
	if hasFields {
		w.str(",\n")
	}
}

// fieldLine writes one "name = value" line. pad is the number of spaces
// between the name and '='; it is at least one.
func (w *buffer) fieldLine(indent, name string, pad int, value string, comma bool) {
	w.str(indent)
	w.str(name)
	w.b = append(w.b, bytes.Repeat([]byte{' '}, max(pad, 1))...)
	w.str("= ")
	w.str(value)
	if comma {
		w.char(',')
	}
	w.char('\n')
}
