package lexer

import (
	"math"

	"fortio.org/safecast"

	"bibfmt/internal/source"
)

// Cursor: позиция чтения в содержимом файла. Все смещения байтовые.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a cursor at offset 0. Content beyond 4 GiB is not
// addressable by spans and is left unread.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		limit = math.MaxUint32
	}
	return Cursor{File: f, Limit: limit}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Bump consumes and returns the current byte, or 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it is b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// BumpWhile consumes bytes while keep accepts them and returns how many
// were consumed.
func (c *Cursor) BumpWhile(keep func(byte) bool) int {
	start := c.Off
	for c.Off < c.Limit && keep(c.File.Content[c.Off]) {
		c.Off++
	}
	return int(c.Off - start)
}

// BumpLine consumes the rest of the line. With withNewline the '\n' itself
// is consumed too.
func (c *Cursor) BumpLine(withNewline bool) {
	c.BumpWhile(func(b byte) bool { return b != '\n' })
	if withNewline {
		c.Eat('\n')
	}
}

// AtLineStart reports whether the cursor sits at offset 0 or right after '\n'.
// Records and '%' comment lines are only recognised there.
func (c *Cursor) AtLineStart() bool {
	return c.Off == 0 || (c.Off <= c.Limit && c.File.Content[c.Off-1] == '\n')
}

// Mark is a saved offset for SpanFrom, TextFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// TextFrom returns the bytes consumed since m.
func (c *Cursor) TextFrom(m Mark) string {
	return string(c.File.Content[uint32(m):c.Off])
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
