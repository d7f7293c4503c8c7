package order

import (
	"errors"
	"fmt"
	"strings"

	"bibfmt/internal/bib"
)

// Pseudo-keys that address the entry header instead of a field.
const (
	KeyCiteKey = "key"
	KeyType    = "type"
)

const descSuffix = "-desc"

var (
	ErrEmptyKey     = errors.New("empty sort key")
	ErrDuplicateKey = errors.New("duplicate sort key")
)

// SortKey is one comparison criterion.
type SortKey struct {
	Field      string
	Descending bool
}

func (k SortKey) String() string {
	if k.Descending {
		return k.Field + descSuffix
	}
	return k.Field
}

// Spec is the ordered list of sort keys.
type Spec []SortKey

// ParseSortKeys turns names like "year-desc" into a Spec. "citekey" is an
// alias of "key".
func ParseSortKeys(names []string) (Spec, error) {
	spec := make(Spec, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		k := SortKey{}
		if len(name) > len(descSuffix) && strings.EqualFold(name[len(name)-len(descSuffix):], descSuffix) {
			k.Descending = true
			name = name[:len(name)-len(descSuffix)]
		}
		k.Field = canonicalField(name)
		spec = append(spec, k)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate rejects empty names and keys named twice, including a field
// requested both ascending and descending.
func (s Spec) Validate() error {
	seen := make(map[string]int, len(s))
	for i, k := range s {
		name := canonicalField(k.Field)
		if name == "" {
			return fmt.Errorf("sort key #%d: %w", i+1, ErrEmptyKey)
		}
		folded := bib.Fold(name)
		if j, ok := seen[folded]; ok {
			return fmt.Errorf("%q (#%d) repeats %q (#%d): %w", k, i+1, s[j], j+1, ErrDuplicateKey)
		}
		seen[folded] = i
	}
	return nil
}

func canonicalField(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "citekey") {
		return KeyCiteKey
	}
	return name
}
