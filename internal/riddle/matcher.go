package riddle

import (
	"sort"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// matcher answers "does the text contain any of these keywords" with a
// single Aho-Corasick pass. It is read-only once built.
type matcher struct {
	machine  *goahocorasick.Machine
	keywords []string
}

// newMatcher normalizes, de-duplicates and sorts keywords before building
// the automaton. Keywords that normalize to "" are an error.
func newMatcher(keywords []string) (*matcher, error) {
	if len(keywords) == 0 {
		return nil, ErrEmptyKeywords
	}
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		n := Normalize(k)
		if n == "" {
			return nil, ErrBlankKeyword
		}
		normalized = append(normalized, n)
	}
	normalized = lo.Uniq(normalized)
	sort.Strings(normalized)

	patterns := lo.Map(normalized, func(k string, _ int) []rune { return []rune(k) })
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &matcher{machine: m, keywords: normalized}, nil
}

// contains reports whether normalized text holds at least one keyword.
func (m *matcher) contains(text string) bool {
	if text == "" {
		return false
	}
	return len(m.machine.MultiPatternSearch([]rune(text), true)) > 0
}
