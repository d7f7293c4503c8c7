package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bibfmt/internal/dedupe"
	"bibfmt/internal/format"
)

// ErrUnknownValue is returned for an enumeration value no spelling matches.
var ErrUnknownValue = errors.New("unknown value")

func unknown(what, value, expected string) error {
	return fmt.Errorf("%w %q for %s (expected: %s)", ErrUnknownValue, value, what, expected)
}

// norm приводит написание к нижнему регистру без лишних пробелов.
func norm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ParseIndent accepts "keep", "tab", "N", "N spaces" and a literal run of
// spaces or a tab character.
func ParseIndent(s string) (format.Indent, error) {
	if s != "" && strings.Trim(s, " ") == "" {
		return format.Indent{Spaces: len(s)}, nil
	}
	if s == "\t" {
		return format.Indent{Tabs: true}, nil
	}
	v := norm(s)
	switch v {
	case "", "keep":
		return format.Indent{}, nil
	case "tab", "tabs", `\t`:
		return format.Indent{Tabs: true}, nil
	}
	num := strings.TrimSuffix(strings.TrimSuffix(v, " spaces"), " space")
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return format.Indent{}, unknown("indent", s, `keep|tab|N|"N spaces"`)
	}
	return format.Indent{Spaces: n}, nil
}

// ParseDelimiter accepts "keep", "braces" ("Curly braces", "{}") and
// "quotes" ("Quotation marks", `""`).
func ParseDelimiter(s string) (format.DelimStyle, error) {
	switch norm(s) {
	case "", "keep":
		return format.DelimKeep, nil
	case "braces", "brace", "curly braces", "{}":
		return format.DelimBraces, nil
	case "quotes", "quote", "quotation marks", `""`:
		return format.DelimQuotes, nil
	}
	return format.DelimKeep, unknown("delimiter", s, "keep|braces|quotes")
}

// ParseCase accepts "keep", "upper" ("UPPERCASE") and "lower" ("lowercase").
func ParseCase(s string) (format.CaseStyle, error) {
	switch norm(s) {
	case "", "keep":
		return format.CaseKeep, nil
	case "upper", "uppercase":
		return format.CaseUpper, nil
	case "lower", "lowercase":
		return format.CaseLower, nil
	}
	return format.CaseKeep, unknown("case", s, "keep|upper|lower")
}

// ParseTrailing accepts "keep", "add" ("true", "yes") and "remove" ("false", "no").
func ParseTrailing(s string) (format.TrailingStyle, error) {
	switch norm(s) {
	case "", "keep":
		return format.TrailingKeep, nil
	case "add", "true", "yes", "on":
		return format.TrailingAdd, nil
	case "remove", "false", "no", "off":
		return format.TrailingRemove, nil
	}
	return format.TrailingKeep, unknown("trailing comma", s, "keep|add|remove")
}

// ParseDuplicates accepts "ignore" ("Ignore Duplicates") and "comment"
// ("comment-out", "Comment Duplicates").
func ParseDuplicates(s string) (dedupe.Policy, error) {
	switch norm(s) {
	case "", "ignore", "ignore duplicates", "keep":
		return dedupe.Ignore, nil
	case "comment", "comment-out", "comment out", "comment duplicates", "commentout":
		return dedupe.CommentOut, nil
	}
	return dedupe.Ignore, unknown("duplicates", s, "ignore|comment")
}

// SplitList splits a comma or whitespace separated list, dropping empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
