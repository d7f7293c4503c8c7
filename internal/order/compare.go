package order

import (
	"cmp"
	"strconv"
	"strings"

	"bibfmt/internal/bib"
)

// Compare orders two entries; negative when a sorts first.
type Compare func(a, b *bib.Entry) int

// Build returns a strict total order: type priority rank, then each sort key
// in turn, then SourceOrder.
func Build(spec Spec, typePriority []string) Compare {
	rank := make(map[string]int, len(typePriority))
	for i, t := range typePriority {
		f := bib.Fold(strings.TrimSpace(t))
		if _, dup := rank[f]; !dup {
			rank[f] = i
		}
	}
	unlisted := len(typePriority)
	typeRank := func(e *bib.Entry) int {
		if r, ok := rank[bib.Fold(e.Type)]; ok {
			return r
		}
		return unlisted
	}

	keys := make(Spec, len(spec))
	for i, k := range spec {
		keys[i] = SortKey{Field: canonicalField(k.Field), Descending: k.Descending}
	}

	return func(a, b *bib.Entry) int {
		if len(rank) > 0 {
			if c := cmp.Compare(typeRank(a), typeRank(b)); c != 0 {
				return c
			}
		}
		for _, k := range keys {
			if c := compareKey(a, b, k); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.SourceOrder, b.SourceOrder)
	}
}

// compareKey: отсутствующее значение всегда после присутствующего,
// Descending разворачивает только сравнение значений.
func compareKey(a, b *bib.Entry, k SortKey) int {
	va, okA := sortValue(a, k.Field)
	vb, okB := sortValue(b, k.Field)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	c := compareValues(va, vb)
	if k.Descending {
		return -c
	}
	return c
}

func sortValue(e *bib.Entry, field string) (string, bool) {
	switch {
	case strings.EqualFold(field, KeyCiteKey):
		return e.Key, true
	case strings.EqualFold(field, KeyType):
		return e.Type, true
	}
	f, ok := e.Lookup(field)
	if !ok {
		return "", false
	}
	return f.Value.Text, true
}

// compareValues сравнивает как целые, если обе стороны целые числа,
// иначе как строки без фигурных скобок и без учёта регистра.
func compareValues(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if ia, err := strconv.ParseInt(na, 10, 64); err == nil {
		if ib, err := strconv.ParseInt(nb, 10, 64); err == nil {
			return cmp.Compare(ia, ib)
		}
	}
	return strings.Compare(bib.Fold(na), bib.Fold(nb))
}

// Normalize strips grouping braces and surrounding whitespace.
func Normalize(v string) string {
	if strings.ContainsAny(v, "{}") {
		v = strings.Map(func(r rune) rune {
			if r == '{' || r == '}' {
				return -1
			}
			return r
		}, v)
	}
	return strings.TrimSpace(v)
}
