package lexer

import "bibfmt/internal/token"

// NextValue returns a Braced, Quoted or bare Ident value token. Anything
// else is returned as the structural token Next would produce.
func (lx *Lexer) NextValue() token.Token {
	lx.unpeek()
	lx.skipSpace()
	switch ch := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		return lx.eof()
	case ch == '{':
		return lx.scanBraced()
	case ch == '"':
		return lx.scanQuoted()
	default:
		return lx.Next()
	}
}

// scanBraced читает {…} со счётчиком глубины. Незакрытое значение
// возвращается как Invalid до конца файла.
func (lx *Lexer) scanBraced() token.Token {
	start := lx.cursor.Mark()
	depth := 0
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return lx.tok(token.Braced, start)
			}
		}
	}
	return lx.tok(token.Invalid, start)
}

// scanQuoted читает "…" до неэкранированной кавычки на нулевой глубине скобок.
// Внутри {…} кавычки не закрывают значение; лишняя '}' глубину ниже нуля не опускает.
func (lx *Lexer) scanQuoted() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая "
	depth := 0
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '\\':
			lx.cursor.Bump()
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				return lx.tok(token.Quoted, start)
			}
		}
	}
	return lx.tok(token.Invalid, start)
}

// ScanBlock reads the body of @comment, @preamble and @string: a balanced
// {…} or (…) group after optional whitespace. Without an opener it returns an
// empty Invalid token and leaves the cursor after the whitespace.
func (lx *Lexer) ScanBlock() token.Token {
	lx.unpeek()
	lx.skipSpace()
	switch lx.cursor.Peek() {
	case '{':
		return lx.scanBraced()
	case '(':
		return lx.scanParens()
	default:
		return lx.tok(token.Invalid, lx.cursor.Mark())
	}
}

// scanParens читает (…): считаются круглые скобки вне {…} и "…".
func (lx *Lexer) scanParens() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // (
	parens, braces := 1, 0
	quoted := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch {
		case b == '{':
			braces++
		case b == '}':
			if braces > 0 {
				braces--
			}
		case braces > 0:
		case b == '"':
			quoted = !quoted
		case quoted:
		case b == '(':
			parens++
		case b == ')':
			parens--
			if parens == 0 {
				return lx.tok(token.Braced, start)
			}
		}
	}
	return lx.tok(token.Invalid, start)
}
