package parser

import (
	"strings"

	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
	"bibfmt/internal/source"
	"bibfmt/internal/token"
)

// parseEntry разбирает @type{key, name = value, ...} или @type(key, ...).
func (p *Parser) parseEntry(start uint32, typ token.Token) {
	open := p.lx.Next()
	var closer byte
	var closeKind token.Kind
	switch open.Kind {
	case token.LBrace:
		closer, closeKind = '}', token.RBrace
	case token.LParen:
		closer, closeKind = ')', token.RParen
	default:
		p.degrade(start, open.Span, diag.ParseMissingOpen, "expected '{' or '(' after entry type")
		return
	}

	key := p.lx.ScanKey(closer)
	if key.Text == "" {
		p.degrade(start, key.Span, diag.ParseBadKey, "missing citation key")
		return
	}

	e := &bib.Entry{Type: typ.Text, Key: key.Text}

	sep := p.lx.Next()
	switch sep.Kind {
	case token.Comma:
		e.TrailingSeparator = true
	case closeKind:
		p.finishEntry(start, sep, e)
		return
	case token.EOF:
		p.degrade(start, sep.Span, diag.ParseUnterminatedEntry, "unterminated entry")
		return
	default:
		p.degrade(start, sep.Span, diag.ParseBadKey, "citation key must be followed by ','")
		return
	}

	for {
		tok := p.lx.Next()
		switch tok.Kind {
		case closeKind:
			p.finishEntry(start, tok, e)
			return
		case token.Ident:
		case token.EOF:
			p.degrade(start, tok.Span, diag.ParseUnterminatedEntry, "unterminated entry")
			return
		default:
			p.degrade(start, tok.Span, diag.ParseExpectFieldName, "expected field name")
			return
		}

		if eq := p.lx.Next(); eq.Kind != token.Assign {
			p.degrade(start, eq.Span, diag.ParseExpectEquals, "expected '=' after field '"+tok.Text+"'")
			return
		}
		val, last, ok := p.parseValue(start)
		if !ok {
			return
		}
		if i := e.Index(tok.Text); i >= 0 {
			p.degradeWithNote(start, tok.Span, diag.ParseDuplicateField,
				"duplicate field '"+tok.Text+"'",
				e.Fields[i].Span, "first defined here")
			return
		}
		e.Fields = append(e.Fields, bib.Field{
			Name:  tok.Text,
			Value: val,
			Span:  tok.Span.Cover(last),
		})

		sep := p.lx.Next()
		switch sep.Kind {
		case token.Comma:
			e.TrailingSeparator = true
		case closeKind:
			e.TrailingSeparator = false
			p.finishEntry(start, sep, e)
			return
		case token.EOF:
			p.degrade(start, sep.Span, diag.ParseUnterminatedEntry, "unterminated entry")
			return
		default:
			p.degrade(start, sep.Span, diag.ParseExpectSeparator, "expected ',' or closing delimiter after value")
			return
		}
	}
}

// parseValue читает значение и конкатенации через '#'. Возвращает span
// последней части для Field.Span.
func (p *Parser) parseValue(start uint32) (bib.FieldValue, source.Span, bool) {
	first := p.lx.NextValue()
	if !p.checkValue(start, first) {
		return bib.FieldValue{}, source.Span{}, false
	}
	last := first
	for p.lx.Peek().Kind == token.Hash {
		p.lx.Next()
		part := p.lx.NextValue()
		if !p.checkValue(start, part) {
			return bib.FieldValue{}, source.Span{}, false
		}
		last = part
	}

	if last.Span != first.Span {
		// конкатенация хранится дословно, с исходными пробелами
		sp := first.Span.Cover(last.Span)
		return bib.FieldValue{Text: sp.Text(p.file), Delim: bib.DelimBare}, last.Span, true
	}
	switch first.Kind {
	case token.Braced:
		return bib.FieldValue{Text: first.Inner(), Delim: bib.DelimBrace}, last.Span, true
	case token.Quoted:
		return bib.FieldValue{Text: first.Inner(), Delim: bib.DelimQuote}, last.Span, true
	default:
		return bib.FieldValue{Text: first.Text, Delim: bib.DelimBare}, last.Span, true
	}
}

func (p *Parser) checkValue(start uint32, tok token.Token) bool {
	switch {
	case tok.IsValue():
		return true
	case tok.Kind == token.Invalid && (strings.HasPrefix(tok.Text, "{") || strings.HasPrefix(tok.Text, `"`)):
		p.degrade(start, tok.Span, diag.ParseUnterminatedValue, "unterminated field value")
	default:
		p.degrade(start, tok.Span, diag.ParseExpectValue, "expected field value")
	}
	return false
}

func (p *Parser) finishEntry(start uint32, closeTok token.Token, e *bib.Entry) {
	sp := p.spanTo(start, closeTok.Span.End)
	e.Span = sp
	e.Raw = sp.Text(p.file)
	e.SourceOrder = p.entries
	p.entries++
	p.db.Nodes = append(p.db.Nodes, bib.Node{
		Kind:  bib.NodeEntry,
		Span:  sp,
		Entry: e,
	})
}
