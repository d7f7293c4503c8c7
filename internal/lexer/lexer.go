package lexer

import (
	"bibfmt/internal/source"
	"bibfmt/internal/token"
)

// Lexer выдаёт токены .bib файла в двух режимах: верхний уровень (NextTop)
// и тело записи (Next, NextValue, ScanKey, ScanBlock). Режим выбирает парсер.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		look:   nil,
	}
}

// Offset returns the byte offset of the next unread token.
func (lx *Lexer) Offset() uint32 {
	lx.unpeek()
	return lx.cursor.Off
}

// Reset moves the lexer to off and drops any lookahead.
func (lx *Lexer) Reset(off uint32) {
	lx.look = nil
	if off > lx.cursor.Limit {
		off = lx.cursor.Limit
	}
	lx.cursor.Off = off
}

// NextTop returns the next top-level token: At, Comment, Text or EOF.
func (lx *Lexer) NextTop() token.Token {
	lx.unpeek()
	if lx.cursor.EOF() {
		return lx.eof()
	}
	if lx.cursor.AtLineStart() && lx.commentLineAhead() {
		return lx.scanComment()
	}
	if lx.cursor.Peek() == '@' {
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		return lx.tok(token.At, start)
	}
	return lx.scanText()
}

// Next возвращает следующий структурный токен тела записи, пропуская пробелы.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()
	if lx.cursor.EOF() {
		return lx.eof()
	}

	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	if isNameByte(ch) {
		return lx.scanName()
	}

	lx.cursor.Bump()
	kind := token.Invalid
	switch ch {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ',':
		kind = token.Comma
	case '=':
		kind = token.Assign
	case '#':
		kind = token.Hash
	case '@':
		kind = token.At
	}
	return lx.tok(kind, start)
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// unpeek возвращает курсор к началу отложенного токена: сканеры значений
// и ключей читают байты напрямую.
func (lx *Lexer) unpeek() {
	if lx.look == nil {
		return
	}
	lx.cursor.Off = lx.look.Span.Start
	lx.look = nil
}

func (lx *Lexer) tok(kind token.Kind, start Mark) token.Token {
	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	}
}

func (lx *Lexer) eof() token.Token {
	return token.Token{
		Kind: token.EOF,
		Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
	}
}
