// Package testkit holds structural checks shared by parser tests and the
// fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bibfmt/internal/bib"
	"bibfmt/internal/source"
)

// CheckSpanInvariants runs the structural invariants of a freshly parsed
// database against its source file:
// 1) node spans are non-empty, point at sf and tile the content without gaps
// 2) node text (entry Raw for entries) equals the text under its span
// 3) field spans are non-empty, inside their entry and in source order
// 4) SourceOrder numbers entries 0, 1, 2... in node order
func CheckSpanInvariants(db *bib.Database, sf *source.File) error {
	if db == nil || sf == nil {
		return fmt.Errorf("nil database or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var next uint32
	entries := 0
	for i := range db.Nodes {
		n := &db.Nodes[i]
		sp := n.Span
		if sp.Empty() {
			return fmt.Errorf("node %d (%s): empty span %v", i, n.Kind, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("node %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != next {
			return fmt.Errorf("node %d (%s): starts at %d, previous node ended at %d", i, n.Kind, sp.Start, next)
		}
		if sp.End > lenContent {
			return fmt.Errorf("node %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		next = sp.End

		text := sp.Text(sf)
		if n.Kind != bib.NodeEntry {
			if n.Entry != nil {
				return fmt.Errorf("node %d (%s) carries an entry", i, n.Kind)
			}
			if n.Text != text {
				return fmt.Errorf("node %d (%s): text %q does not match source %q", i, n.Kind, n.Text, text)
			}
			continue
		}

		e := n.Entry
		if e == nil {
			return fmt.Errorf("node %d: entry node without entry", i)
		}
		if e.Raw != text {
			return fmt.Errorf("entry %q: raw text does not match source", e.Key)
		}
		if e.SourceOrder != entries {
			return fmt.Errorf("entry %q: SourceOrder=%d, want %d", e.Key, e.SourceOrder, entries)
		}
		entries++
		if err := checkFields(e, sp); err != nil {
			return err
		}
	}
	if next != lenContent {
		return fmt.Errorf("nodes end at %d, content is %d bytes", next, lenContent)
	}
	return nil
}

func checkFields(e *bib.Entry, entrySpan source.Span) error {
	var prevEnd uint32
	for j := range e.Fields {
		fsp := e.Fields[j].Span
		if fsp.Empty() {
			return fmt.Errorf("entry %q field %q: empty span", e.Key, e.Fields[j].Name)
		}
		if !fsp.Within(entrySpan) {
			return fmt.Errorf("entry %q field %q: span %v outside entry %v", e.Key, e.Fields[j].Name, fsp, entrySpan)
		}
		if fsp.Start < prevEnd {
			return fmt.Errorf("entry %q field %q: overlaps previous field", e.Key, e.Fields[j].Name)
		}
		prevEnd = fsp.End
	}
	return nil
}
