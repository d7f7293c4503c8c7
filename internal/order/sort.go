package order

import (
	"slices"

	"bibfmt/internal/bib"
)

// Sort reorders entries among the node positions entries already occupy.
// It reports whether any entry moved.
func Sort(db *bib.Database, compare Compare) bool {
	slots := db.EntrySlots()
	if len(slots) < 2 {
		return false
	}
	nodes := make([]bib.Node, len(slots))
	for i, s := range slots {
		nodes[i] = db.Nodes[s]
	}
	slices.SortFunc(nodes, func(a, b bib.Node) int {
		return compare(a.Entry, b.Entry)
	})
	moved := false
	for i, s := range slots {
		if db.Nodes[s].Entry != nodes[i].Entry {
			moved = true
		}
		db.Nodes[s] = nodes[i]
	}
	return moved
}
