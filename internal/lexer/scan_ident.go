package lexer

import "bibfmt/internal/token"

// scanName сканирует Ident: тип записи, имя поля, число или имя макроса.
// Token.Text совпадает с исходным срезом.
func (lx *Lexer) scanName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(isNameByte)
	return lx.tok(token.Ident, start)
}

// ScanKey reads a citation key after leading whitespace. closer is the byte
// that ends the entry body ('}' or ')'). The key may be empty.
func (lx *Lexer) ScanKey(closer byte) token.Token {
	lx.unpeek()
	lx.skipSpace()
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(func(b byte) bool { return isKeyByte(b, closer) })
	return lx.tok(token.Key, start)
}
