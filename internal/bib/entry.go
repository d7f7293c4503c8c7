package bib

import (
	"slices"

	"bibfmt/internal/source"
)

// Delimiter is the wrapping style of a field value.
type Delimiter uint8

const (
	// DelimBrace is {value}.
	DelimBrace Delimiter = iota + 1
	// DelimQuote is "value".
	DelimQuote
	// DelimBare is an undelimited number, macro name or '#' concatenation.
	DelimBare
)

func (d Delimiter) String() string {
	switch d {
	case DelimBrace:
		return "brace"
	case DelimQuote:
		return "quote"
	case DelimBare:
		return "bare"
	}
	return "unknown"
}

// FieldValue is the payload of a field without its outer delimiters.
type FieldValue struct {
	Text  string
	Delim Delimiter
}

// Field is one name = value pair.
type Field struct {
	Name  string
	Value FieldValue
	Span  source.Span
	// Pad is the number of spaces between Name and '=' when the entry is
	// aligned; zero means the serializer's default single space.
	Pad int
}

// Entry is a parsed record.
type Entry struct {
	Type   string
	Key    string
	Fields []Field
	// SourceOrder is the entry's index among the entries of the parsed file.
	SourceOrder int
	// Raw is the record text from '@' through the closing delimiter.
	Raw  string
	Span source.Span
	// TrailingSeparator reports whether the last field was followed by ','.
	TrailingSeparator bool
	// Reordered is set once fields no longer follow source order.
	Reordered bool
	// Aligned is set once Pad values were computed for every field.
	Aligned bool
}

// Lookup returns the field with the given name (case-insensitive).
func (e *Entry) Lookup(name string) (*Field, bool) {
	i := e.Index(name)
	if i < 0 {
		return nil, false
	}
	return &e.Fields[i], true
}

// Index returns the position of the named field or -1.
func (e *Entry) Index(name string) int {
	folded := Fold(name)
	for i := range e.Fields {
		if Fold(e.Fields[i].Name) == folded {
			return i
		}
	}
	return -1
}

// FoldedKey is the identity used for duplicate detection.
func (e *Entry) FoldedKey() string {
	return Fold(e.Key)
}

// Clone returns a copy that shares no mutable state with e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Fields = slices.Clone(e.Fields)
	return &c
}
