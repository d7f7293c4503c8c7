package bib

import (
	"fmt"

	"bibfmt/internal/source"
)

// NodeKind selects the variant stored in a Node.
type NodeKind uint8

const (
	// NodeEntry is a parsed record: @type{key, field = value, ...}.
	NodeEntry NodeKind = iota + 1
	// NodeComment is @comment{...}, a run of '%' lines or a commented-out duplicate.
	NodeComment
	// NodePreamble is @preamble{...}.
	NodePreamble
	// NodeMacro is @string{...}.
	NodeMacro
	// NodeRaw is text between records, or a record that failed to parse.
	NodeRaw
)

func (k NodeKind) String() string {
	switch k {
	case NodeEntry:
		return "entry"
	case NodeComment:
		return "comment"
	case NodePreamble:
		return "preamble"
	case NodeMacro:
		return "macro"
	case NodeRaw:
		return "raw"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// Node is one top-level item of a Database.
type Node struct {
	Kind NodeKind
	Span source.Span
	// Text is the verbatim source for every kind except NodeEntry.
	Text string
	// Entry is set iff Kind == NodeEntry.
	Entry *Entry
	// Suppressed marks a comment produced from a duplicate entry.
	Suppressed bool
}

// Database is the ordered node sequence of one file.
type Database struct {
	Nodes []Node
}

// Entries returns the entry nodes in current order.
func (db *Database) Entries() []*Entry {
	if db == nil {
		return nil
	}
	out := make([]*Entry, 0, len(db.Nodes))
	for i := range db.Nodes {
		if db.Nodes[i].Kind == NodeEntry {
			out = append(out, db.Nodes[i].Entry)
		}
	}
	return out
}

// EntrySlots returns the node indices that currently hold entries.
func (db *Database) EntrySlots() []int {
	if db == nil {
		return nil
	}
	out := make([]int, 0, len(db.Nodes))
	for i := range db.Nodes {
		if db.Nodes[i].Kind == NodeEntry {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of nodes of the given kind.
func (db *Database) Count(kind NodeKind) int {
	n := 0
	for i := range db.Nodes {
		if db.Nodes[i].Kind == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy; entries and their fields are not shared.
func (db *Database) Clone() *Database {
	if db == nil {
		return nil
	}
	out := &Database{Nodes: make([]Node, len(db.Nodes))}
	for i, n := range db.Nodes {
		if n.Entry != nil {
			n.Entry = n.Entry.Clone()
		}
		out.Nodes[i] = n
	}
	return out
}
