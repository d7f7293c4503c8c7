package format

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
)

type printer struct {
	out      *buffer
	style    StyleSpec
	reporter diag.Reporter
}

// Render serializes db under style. Delimiter conflicts are reported to r as
// info diagnostics; r may be nil.
func Render(db *bib.Database, style StyleSpec, r diag.Reporter) []byte {
	if r == nil {
		r = diag.Nop
	}
	p := printer{
		out:      newBuffer(estimateSize(db)),
		style:    style,
		reporter: r,
	}
	for i := range db.Nodes {
		p.printNode(&db.Nodes[i])
	}
	return p.out.Bytes()
}

func (p *printer) printNode(n *bib.Node) {
	switch n.Kind {
	case bib.NodeEntry:
		p.printEntry(n.Entry)
	default:
		p.out.str(n.Text)
	}
}

// NeedsRegeneration reports whether e must be rebuilt rather than copied.
func NeedsRegeneration(e *bib.Entry, style StyleSpec) bool {
	return !style.IsIdentity() || e.Reordered || e.Aligned
}

func (p *printer) printEntry(e *bib.Entry) {
	if !NeedsRegeneration(e, p.style) {
		p.out.str(e.Raw)
		return
	}

	w := p.out
	w.header(applyCase(e.Type, p.style.Case), e.Key, len(e.Fields) > 0)
	if len(e.Fields) == 0 {
		w.char('}')
		return
	}

	trailing := e.TrailingSeparator
	switch p.style.TrailingSeparator {
	case TrailingAdd:
		trailing = true
	case TrailingRemove:
		trailing = false
	}

	indent := IndentFor(e, p.style)
	for i := range e.Fields {
		f := &e.Fields[i]
		pad := 1
		if e.Aligned {
			pad = f.Pad
		}
		w.fieldLine(indent, f.Name, pad, p.value(f), i < len(e.Fields)-1 || trailing)
	}
	w.char('}')
}

// value оборачивает значение в нужные разделители; при конфликте
// сохраняется исходный разделитель.
func (p *printer) value(f *bib.Field) string {
	v := f.Value
	target := v.Delim
	switch p.style.Delimiter {
	case DelimBraces:
		target = bib.DelimBrace
	case DelimQuotes:
		target = bib.DelimQuote
	}
	if target == v.Delim {
		return wrap(v.Text, v.Delim)
	}

	switch v.Delim {
	case bib.DelimBare:
		// числа переоборачиваются, макросы и конкатенации остаются как есть
		if !isDigits(v.Text) {
			return wrap(v.Text, bib.DelimBare)
		}
		return wrap(v.Text, target)
	case bib.DelimBrace:
		if hasTopLevelQuote(v.Text) {
			p.conflict(f, "contains '\"' outside braces")
			return wrap(v.Text, v.Delim)
		}
		if !closesAtEnd(v.Text) {
			p.conflict(f, "would escape the closing '\"'")
			return wrap(v.Text, v.Delim)
		}
	case bib.DelimQuote:
		if !balancedBraces(v.Text) {
			p.conflict(f, "has unbalanced braces")
			return wrap(v.Text, v.Delim)
		}
	}
	return wrap(v.Text, target)
}

func (p *printer) conflict(f *bib.Field, why string) {
	diag.Info(diag.FmtDelimiterConflict, f.Span,
		fmt.Sprintf("value of '%s' %s; keeping %s delimiters", f.Name, why, f.Value.Delim)).To(p.reporter)
}

func wrap(text string, d bib.Delimiter) string {
	switch d {
	case bib.DelimBrace:
		return "{" + text + "}"
	case bib.DelimQuote:
		return `"` + text + `"`
	default:
		return text
	}
}

func applyCase(s string, c CaseStyle) string {
	switch c {
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasTopLevelQuote(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// closesAtEnd повторяет правила чтения "…" лексером: обратная косая черта экранирует
// следующий байт, поэтому значение вроде C:\dir\ съело бы закрывающую кавычку.
func closesAtEnd(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i == len(s)-1 {
				return false
			}
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				return false
			}
		}
	}
	return true
}

func balancedBraces(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func estimateSize(db *bib.Database) int {
	n := 0
	for _, node := range db.Nodes {
		if node.Entry != nil {
			n += len(node.Entry.Raw)
		} else {
			n += len(node.Text)
		}
	}
	return n + n/8
}
