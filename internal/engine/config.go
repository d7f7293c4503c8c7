package engine

import (
	"errors"
	"fmt"
	"strings"

	"bibfmt/internal/align"
	"bibfmt/internal/dedupe"
	"bibfmt/internal/format"
	"bibfmt/internal/order"
)

// ErrInvalidConfig wraps every configuration error returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// MaxIndent is the widest space indentation accepted.
const MaxIndent = 8

const defaultMaxDiagnostics = 256

// SortConfig groups the options of the sort stage.
type SortConfig struct {
	// Enabled turns on dedupe and sort for Format; Sort always runs them.
	Enabled      bool
	Keys         order.Spec
	TypePriority []string
	Duplicates   dedupe.Policy
}

// Config is one immutable configuration snapshot.
type Config struct {
	Sort  SortConfig
	Align align.Spec
	Style format.StyleSpec
	// Verify re-parses the output and keeps the input if entries were lost.
	Verify bool
	// MaxDiagnostics caps diagnostics per document; 0 means 256.
	MaxDiagnostics int
}

// Validate rejects malformed configuration. Names that match nothing are not
// errors: they are simply never matched.
func (c Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) validate() error {
	if err := c.Sort.Keys.Validate(); err != nil {
		return fmt.Errorf("sort keys: %w", err)
	}
	if err := nonEmptyNames("type priority", c.Sort.TypePriority); err != nil {
		return err
	}
	if err := nonEmptyNames("field order", c.Align.FieldOrder); err != nil {
		return err
	}
	if c.Sort.Duplicates > dedupe.CommentOut {
		return fmt.Errorf("unknown duplicate policy %d", c.Sort.Duplicates)
	}

	st := c.Style
	switch {
	case st.Indent.Tabs && st.Indent.Spaces != 0:
		return errors.New("indent: tab and spaces are mutually exclusive")
	case st.Indent.Spaces < 0 || st.Indent.Spaces > MaxIndent:
		return fmt.Errorf("indent: %d spaces out of range 1..%d", st.Indent.Spaces, MaxIndent)
	case st.Delimiter > format.DelimQuotes:
		return fmt.Errorf("unknown delimiter style %d", st.Delimiter)
	case st.Case > format.CaseLower:
		return fmt.Errorf("unknown case style %d", st.Case)
	case st.TrailingSeparator > format.TrailingRemove:
		return fmt.Errorf("unknown trailing separator style %d", st.TrailingSeparator)
	case c.MaxDiagnostics < 0:
		return fmt.Errorf("max diagnostics %d is negative", c.MaxDiagnostics)
	}
	return nil
}

// nonEmptyNames: пустое имя является ошибкой, повтор нет (первое вхождение побеждает).
func nonEmptyNames(what string, names []string) error {
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%s: name #%d is empty", what, i+1)
		}
	}
	return nil
}

// Fingerprint is a stable text form of everything that affects output.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("sort=%t keys=%v types=%q dup=%s align=%t order=%q alpha=%t indent=%s delim=%s case=%s trailing=%s eq=%t verify=%t",
		c.Sort.Enabled, c.Sort.Keys, c.Sort.TypePriority, c.Sort.Duplicates,
		c.Align.Enabled, c.Align.FieldOrder, c.Align.SortAlphabetically,
		c.Style.Indent, c.Style.Delimiter, c.Style.Case, c.Style.TrailingSeparator, c.Style.AlignEquals,
		c.Verify)
}

func (c Config) maxDiagnostics() int {
	if c.MaxDiagnostics == 0 {
		return defaultMaxDiagnostics
	}
	return c.MaxDiagnostics
}
