package token

import (
	"bibfmt/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsValue reports whether the token can start a field value.
func (t Token) IsValue() bool {
	switch t.Kind {
	case Braced, Quoted, Ident:
		return true
	default:
		return false
	}
}

// IsCloser reports whether the token closes an entry body.
func (t Token) IsCloser() bool {
	return t.Kind == RBrace || t.Kind == RParen
}

// Inner returns the text between the outer delimiters of a Braced or Quoted token.
func (t Token) Inner() string {
	if (t.Kind == Braced || t.Kind == Quoted) && len(t.Text) >= 2 {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text
}
