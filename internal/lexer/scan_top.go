package lexer

import "bibfmt/internal/token"

// scanComment собирает подряд идущие строки, начинающиеся с '%' (после
// отступа), вместе с их переводами строк.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.AtLineStart() && lx.commentLineAhead() {
		lx.bumpLine()
	}
	return lx.tok(token.Comment, start)
}

// scanText съедает всё до '@' или до строки-комментария.
func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '@' {
			break
		}
		if lx.cursor.Off != uint32(start) && lx.cursor.AtLineStart() && lx.commentLineAhead() {
			break
		}
		lx.cursor.Bump()
	}
	return lx.tok(token.Text, start)
}

// SkipToNextRecord advances to the next line that starts with '@' (after
// optional indentation) or to EOF. The indentation is left unread.
func (lx *Lexer) SkipToNextRecord() {
	lx.look = nil
	for !lx.cursor.EOF() {
		if lx.cursor.AtLineStart() && lx.byteAfterHSpace() == '@' {
			return
		}
		lx.cursor.Bump()
	}
}

// RestOfLine returns the bytes up to, not including, the next '\n'.
func (lx *Lexer) RestOfLine() token.Token {
	lx.unpeek()
	start := lx.cursor.Mark()
	lx.cursor.BumpLine(false)
	return lx.tok(token.Text, start)
}
