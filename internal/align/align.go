// Package align reorders the fields of an entry and computes the padding
// that puts every '=' of the entry in one column.
package align

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"bibfmt/internal/bib"
)

// Spec controls field ordering.
type Spec struct {
	Enabled bool
	// FieldOrder names fields that go first, in list order. Names that match
	// no field are skipped.
	FieldOrder []string
	// SortAlphabetically orders the remaining fields by name; otherwise they
	// keep their original order.
	SortAlphabetically bool
}

// Fields reorders e.Fields per spec and reports whether the order changed.
func Fields(e *bib.Entry, spec Spec) bool {
	if len(e.Fields) < 2 {
		return false
	}
	rank := make(map[string]int, len(spec.FieldOrder))
	for i, name := range spec.FieldOrder {
		f := bib.Fold(strings.TrimSpace(name))
		if _, dup := rank[f]; !dup {
			rank[f] = i
		}
	}

	type item struct {
		field  bib.Field
		folded string
		pos    int
	}
	items := make([]item, len(e.Fields))
	for i, f := range e.Fields {
		items[i] = item{field: f, folded: bib.Fold(f.Name), pos: i}
	}
	unlisted := len(spec.FieldOrder)
	slices.SortStableFunc(items, func(a, b item) int {
		ra, okA := rank[a.folded]
		rb, okB := rank[b.folded]
		if !okA {
			ra = unlisted
		}
		if !okB {
			rb = unlisted
		}
		if ra != rb {
			return ra - rb
		}
		if !okA && spec.SortAlphabetically {
			return strings.Compare(a.folded, b.folded)
		}
		return 0
	})

	changed := false
	for i, it := range items {
		if it.pos != i {
			changed = true
		}
		e.Fields[i] = it.field
	}
	if changed {
		e.Reordered = true
	}
	return changed
}

// Padding sets Field.Pad so that '=' lands one column past the widest field
// name of the entry. With unit > 1 the column is rounded up to a multiple of
// unit. Width is the terminal display width of the name.
func Padding(e *bib.Entry, unit int) {
	widest := 0
	for _, f := range e.Fields {
		widest = max(widest, runewidth.StringWidth(f.Name))
	}
	col := widest + 1
	if unit > 1 && col%unit != 0 {
		col += unit - col%unit
	}
	for i := range e.Fields {
		e.Fields[i].Pad = col - runewidth.StringWidth(e.Fields[i].Name)
	}
	e.Aligned = true
}
