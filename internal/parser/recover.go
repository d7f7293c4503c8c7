package parser

import (
	"fmt"

	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
	"bibfmt/internal/source"
)

// degrade сообщает о нераспознанной записи и сохраняет её дословно как
// NodeRaw: от '@' до следующей строки, начинающейся с '@', или до EOF.
func (p *Parser) degrade(start uint32, at source.Span, code diag.Code, msg string) {
	p.degradeWithNote(start, at, code, msg, source.Span{}, "")
}

func (p *Parser) degradeWithNote(start uint32, at source.Span, code diag.Code, msg string, noteSpan source.Span, note string) {
	p.lx.Reset(start + 1)
	p.lx.SkipToNextRecord()
	end := p.lx.Offset()
	sp := p.spanTo(start, end)

	d := diag.Warning(code, at, fmt.Sprintf("%s at byte %d; record kept verbatim", msg, at.Start))
	if note != "" {
		d = d.WithNote(noteSpan, note)
	}
	p.report(d.WithNote(p.spanTo(start, start+1), "record starts here"))

	p.db.Nodes = append(p.db.Nodes, bib.Node{
		Kind: bib.NodeRaw,
		Span: sp,
		Text: sp.Text(p.file),
	})
}

// report соблюдает MaxErrors: после лимита диагностики молча теряются,
// разбор продолжается.
func (p *Parser) report(d diag.Diagnostic) {
	if p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors {
		return
	}
	p.errors++
	d.To(p.opts.Reporter)
}
