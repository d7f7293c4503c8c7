package lexer

// ===== Классификаторы =====

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isHSpace(b byte) bool { return b == ' ' || b == '\t' }

// isNameByte принимает любой печатный символ, кроме служебных для записи.
// Байты >= 0x80 (UTF-8) допустимы.
func isNameByte(b byte) bool {
	if b <= ' ' || b == 0x7f {
		return false
	}
	switch b {
	case '"', '#', '%', '\'', '(', ')', ',', '=', '{', '}', '@':
		return false
	}
	return true
}

// isKeyByte: ключ заканчивается на пробеле, запятой, скобках, кавычке, '=' и закрывающем символе записи.
func isKeyByte(b, closer byte) bool {
	if isSpace(b) || b == closer {
		return false
	}
	switch b {
	case ',', '{', '}', '"', '=':
		return false
	}
	return true
}

// ===== Работа с курсором =====

func (lx *Lexer) skipSpace() {
	lx.cursor.BumpWhile(isSpace)
}

// commentLineAhead: с текущей позиции, после пробелов и табов, стоит '%'.
func (lx *Lexer) commentLineAhead() bool {
	return lx.byteAfterHSpace() == '%'
}

func (lx *Lexer) byteAfterHSpace() byte {
	c := lx.file.Content
	for i := lx.cursor.Off; i < lx.cursor.Limit; i++ {
		if !isHSpace(c[i]) {
			return c[i]
		}
	}
	return 0
}

// bumpLine съедает остаток строки вместе с '\n'.
func (lx *Lexer) bumpLine() {
	lx.cursor.BumpLine(true)
}
