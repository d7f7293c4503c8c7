package format

import (
	"fmt"
	"strings"

	"bibfmt/internal/bib"
)

// Indent is one indentation unit. The zero value keeps the indentation the
// entry already had.
type Indent struct {
	Tabs   bool
	Spaces int
}

func (i Indent) IsZero() bool { return !i.Tabs && i.Spaces == 0 }

func (i Indent) String() string {
	switch {
	case i.Tabs:
		return "tab"
	case i.Spaces > 0:
		return fmt.Sprintf("%d spaces", i.Spaces)
	}
	return "keep"
}

type DelimStyle uint8

const (
	DelimKeep DelimStyle = iota
	DelimBraces
	DelimQuotes
)

func (d DelimStyle) String() string {
	switch d {
	case DelimBraces:
		return "braces"
	case DelimQuotes:
		return "quotes"
	}
	return "keep"
}

// CaseStyle applies to the entry type token only.
type CaseStyle uint8

const (
	CaseKeep CaseStyle = iota
	CaseUpper
	CaseLower
)

func (c CaseStyle) String() string {
	switch c {
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	}
	return "keep"
}

type TrailingStyle uint8

const (
	TrailingKeep TrailingStyle = iota
	TrailingAdd
	TrailingRemove
)

func (t TrailingStyle) String() string {
	switch t {
	case TrailingAdd:
		return "add"
	case TrailingRemove:
		return "remove"
	}
	return "keep"
}

// StyleSpec describes how regenerated entries look. The zero value is the
// identity style.
type StyleSpec struct {
	Indent            Indent
	Delimiter         DelimStyle
	Case              CaseStyle
	TrailingSeparator TrailingStyle
	AlignEquals       bool
}

// IsIdentity reports whether s keeps everything as written.
func (s StyleSpec) IsIdentity() bool {
	return s == StyleSpec{}
}

const defaultIndent = "  "

// IndentFor returns the indentation unit used for e's fields.
func IndentFor(e *bib.Entry, s StyleSpec) string {
	switch {
	case s.Indent.Tabs:
		return "\t"
	case s.Indent.Spaces > 0:
		return strings.Repeat(" ", s.Indent.Spaces)
	}
	return sourceIndent(e.Raw)
}

// PadUnit is the column granularity for '=' alignment: the indent width for
// space indents, 1 for tabs.
func PadUnit(e *bib.Entry, s StyleSpec) int {
	unit := IndentFor(e, s)
	if unit == "" || strings.Trim(unit, " ") != "" {
		return 1
	}
	return len(unit)
}

// sourceIndent возвращает отступ второй строки записи, либо два пробела.
func sourceIndent(raw string) string {
	nl := strings.IndexByte(raw, '\n')
	if nl < 0 {
		return defaultIndent
	}
	line := raw[nl+1:]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	if n == 0 {
		return defaultIndent
	}
	return line[:n]
}
