package bib

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-insensitive identity of s: NFC-normalised and
// Unicode case-folded. ASCII input takes a fast path.
func Fold(s string) string {
	if isASCII(s) {
		return strings.ToLower(s)
	}
	// cases.Caser хранит состояние, поэтому новый на каждый вызов
	return cases.Fold().String(norm.NFC.String(s))
}

// EqualFold reports whether a and b have the same Fold identity.
func EqualFold(a, b string) bool {
	if isASCII(a) && isASCII(b) {
		return strings.EqualFold(a, b)
	}
	return Fold(a) == Fold(b)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
