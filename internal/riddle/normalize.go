package riddle

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text for keyword matching: compatibility
// decomposition (full-width ASCII and half-width katakana fold to their
// usual forms), lower case, and every whitespace rune removed. A final
// NFKC pass composes marks that were separated from their base by the
// removed whitespace.
//
// Normalize is total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	// cases.Caser keeps state between calls; one per call keeps Normalize
	// safe for concurrent use.
	s = cases.Lower(language.Und).String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\ufeff' {
			return -1
		}
		return r
	}, s)
	return norm.NFKC.String(s)
}
