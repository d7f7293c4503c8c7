// Package dedupe finds entries sharing a citation key and applies the
// duplicate policy. The first entry seen for a key is canonical.
package dedupe

import (
	"fmt"
	"strings"

	"bibfmt/internal/bib"
	"bibfmt/internal/diag"
)

// Policy decides what happens to non-canonical duplicates.
type Policy uint8

const (
	// Ignore reports duplicates and leaves them in place.
	Ignore Policy = iota
	// CommentOut turns every duplicate into a '%' comment at its position.
	CommentOut
)

func (p Policy) String() string {
	switch p {
	case Ignore:
		return "ignore"
	case CommentOut:
		return "comment"
	}
	return fmt.Sprintf("Policy(%d)", uint8(p))
}

// Resolve applies policy to db in place and returns it. Every duplicate is
// reported as an info diagnostic with a note at the canonical entry.
func Resolve(db *bib.Database, policy Policy, r diag.Reporter) *bib.Database {
	if db == nil {
		return nil
	}
	if r == nil {
		r = diag.Nop
	}
	canonical := make(map[string]*bib.Entry)
	for i := range db.Nodes {
		n := &db.Nodes[i]
		if n.Kind != bib.NodeEntry {
			continue
		}
		id := n.Entry.FoldedKey()
		first, seen := canonical[id]
		if !seen {
			canonical[id] = n.Entry
			continue
		}

		code, msg := diag.OrdDuplicateKey, fmt.Sprintf("duplicate citation key %q", n.Entry.Key)
		if policy == CommentOut {
			code, msg = diag.OrdCommentedOut, fmt.Sprintf("duplicate citation key %q commented out", n.Entry.Key)
		}
		diag.Info(code, n.Span, msg).
			WithNote(first.Span, "first defined here").
			To(r)

		if policy == CommentOut {
			commentOut(db, i)
		}
	}
	return db
}

// commentOut заменяет запись i комментарием. Комментарий должен начинаться
// с новой строки и заканчиваться ею, иначе повторный разбор смешает его с соседями.
// bibtex не знает '%' вне записей и ищет '@', поэтому '@' заголовка убирается.
func commentOut(db *bib.Database, i int) {
	n := &db.Nodes[i]
	var sb strings.Builder
	if !startsLine(db, i) {
		sb.WriteByte('\n')
	}
	raw := strings.TrimPrefix(n.Entry.Raw, "@")
	for j, line := range strings.Split(raw, "\n") {
		if j > 0 {
			sb.WriteByte('\n')
		}
		if strings.TrimSpace(line) == "" {
			sb.WriteByte('%')
			continue
		}
		sb.WriteString("% ")
		sb.WriteString(line)
	}
	if !endsLine(db, i) {
		sb.WriteByte('\n')
	}
	*n = bib.Node{
		Kind:       bib.NodeComment,
		Span:       n.Span,
		Text:       sb.String(),
		Suppressed: true,
	}
}

// startsLine: перед узлом i только отступ от начала строки.
func startsLine(db *bib.Database, i int) bool {
	if i == 0 {
		return true
	}
	prev := db.Nodes[i-1]
	if prev.Kind == bib.NodeEntry {
		return false
	}
	nl := strings.LastIndexByte(prev.Text, '\n')
	if strings.Trim(prev.Text[nl+1:], " \t") != "" {
		return false
	}
	return nl >= 0 || startsLine(db, i-1)
}

// endsLine: после узла i до конца строки нет ничего, кроме пробелов.
func endsLine(db *bib.Database, i int) bool {
	if i == len(db.Nodes)-1 {
		return true
	}
	next := db.Nodes[i+1]
	if next.Kind == bib.NodeEntry {
		return false
	}
	rest := strings.TrimLeft(next.Text, " \t")
	if rest == "" {
		return endsLine(db, i+1)
	}
	return rest[0] == '\n'
}
