package parser

import (
	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
	"bibfmt/internal/lexer"
	"bibfmt/internal/source"
	"bibfmt/internal/token"
)

type Options struct {
	// MaxErrors ограничивает число предупреждений о деградации; 0 означает без ограничения.
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser хранит состояние разбора одного файла.
type Parser struct {
	lx      *lexer.Lexer // поток токенов
	file    *source.File
	opts    Options
	db      *bib.Database
	entries int  // счётчик записей для SourceOrder
	errors  uint // выданные предупреждения
}

// Parse разбирает файл целиком. Разбор не падает: неразобранная запись
// сохраняется как NodeRaw с предупреждением.
func Parse(sf *source.File, opts Options) *bib.Database {
	if opts.Reporter == nil {
		opts.Reporter = diag.Nop
	}
	p := Parser{
		lx:   lexer.New(sf),
		file: sf,
		opts: opts,
		db:   &bib.Database{},
	}
	p.parseItems()
	return p.db
}

// ParseText is a convenience wrapper that parses an in-memory document.
func ParseText(name, text string, opts Options) (*bib.Database, *source.File) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual(name, []byte(text)))
	return Parse(sf, opts), sf
}

// parseItems: основной цикл верхнего уровня: пока не EOF.
func (p *Parser) parseItems() {
	for {
		tok := p.lx.NextTop()
		switch tok.Kind {
		case token.EOF:
			return
		case token.Comment:
			p.push(bib.NodeComment, tok.Span)
		case token.At:
			p.parseRecord(tok)
		default:
			p.push(bib.NodeRaw, tok.Span)
		}
	}
}

// parseRecord выбирает распознаватель по типу записи после '@'.
func (p *Parser) parseRecord(at token.Token) {
	start := at.Span.Start
	typ := p.lx.Next()
	if typ.Kind != token.Ident {
		p.degrade(start, typ.Span, diag.ParseMissingType, "expected entry type after '@'")
		return
	}
	switch bib.Fold(typ.Text) {
	case "comment":
		p.parseComment(start, typ)
	case "preamble":
		p.parseBlock(start, bib.NodePreamble)
	case "string":
		p.parseBlock(start, bib.NodeMacro)
	default:
		p.parseEntry(start, typ)
	}
}

// parseComment: @comment{…} или @comment до конца строки.
func (p *Parser) parseComment(start uint32, typ token.Token) {
	blk := p.lx.ScanBlock()
	switch {
	case blk.Kind == token.Braced:
		p.push(bib.NodeComment, p.spanTo(start, blk.Span.End))
	case blk.Text == "":
		p.lx.Reset(typ.Span.End)
		rest := p.lx.RestOfLine()
		p.push(bib.NodeComment, p.spanTo(start, rest.Span.End))
	default:
		p.degrade(start, blk.Span, diag.ParseUnterminatedBlock, "unterminated @comment block")
	}
}

// parseBlock: @preamble и @string хранятся дословно.
func (p *Parser) parseBlock(start uint32, kind bib.NodeKind) {
	blk := p.lx.ScanBlock()
	switch {
	case blk.Kind == token.Braced:
		p.push(kind, p.spanTo(start, blk.Span.End))
	case blk.Text == "":
		p.degrade(start, blk.Span, diag.ParseMissingOpen, "expected '{' or '(' after @"+kind.String())
	default:
		p.degrade(start, blk.Span, diag.ParseUnterminatedBlock, "unterminated @"+kind.String()+" block")
	}
}

func (p *Parser) push(kind bib.NodeKind, sp source.Span) {
	if sp.Empty() {
		return
	}
	p.db.Nodes = append(p.db.Nodes, bib.Node{
		Kind: kind,
		Span: sp,
		Text: sp.Text(p.file),
	})
}

func (p *Parser) spanTo(start, end uint32) source.Span {
	return source.Span{File: p.file.ID, Start: start, End: end}
}
