// internal/riddle/library.go
//
// Library of compiled judges, one per locale.
//
// Initialization behavior (LoadLibrary):
//   1. Every embedded deck under assets/decks is parsed and compiled.
//   2. If a deck file path is given (RIDDLE_DECK_FILE), that deck is loaded
//      from disk and replaces the embedded deck with the same locale, or is
//      added as a new locale.
//
// The package-level ClassifyQuestion and JudgeGuess use the reference deck
// ("ja"), compiled once on first use.

package riddle

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/soup-riddle/assets"
)

// ReferenceLocale is the locale of the deck the game was written in.
const ReferenceLocale = "ja"

// Library maps locales to compiled judges. It is immutable after creation.
type Library struct {
	judges  map[string]*Judge
	locales []string
}

// NewLibrary compiles decks into a Library. A later deck with the same
// locale replaces an earlier one.
func NewLibrary(decks ...*Deck) (*Library, error) {
	l := &Library{judges: make(map[string]*Judge, len(decks))}
	for _, d := range decks {
		j, err := NewJudge(d)
		if err != nil {
			return nil, err
		}
		l.judges[d.Locale] = j
	}
	for loc := range l.judges {
		l.locales = append(l.locales, loc)
	}
	sort.Strings(l.locales)
	return l, nil
}

// EmbeddedDecks parses every deck bundled with the binary.
func EmbeddedDecks() ([]*Deck, error) {
	files, err := assets.DeckFiles()
	if err != nil {
		return nil, fmt.Errorf("read embedded decks: %w", err)
	}
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	decks := make([]*Deck, 0, len(names))
	for _, n := range names {
		d, err := ParseDeck(files[n])
		if err != nil {
			return nil, fmt.Errorf("embedded deck %s: %w", n, err)
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// LoadLibrary compiles the embedded decks plus an optional deck file.
func LoadLibrary(deckFile string) (*Library, error) {
	decks, err := EmbeddedDecks()
	if err != nil {
		return nil, err
	}
	if deckFile != "" {
		d, err := ReadDeckFile(deckFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", deckFile).Str("locale", d.Locale).Msg("loaded deck file")
		decks = append(decks, d)
	}
	return NewLibrary(decks...)
}

// Judge returns the judge for locale, or ErrUnknownLocale.
func (l *Library) Judge(locale string) (*Judge, error) {
	if j, ok := l.judges[locale]; ok {
		return j, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
}

// Locales lists the available locales in lexical order.
func (l *Library) Locales() []string {
	return append([]string(nil), l.locales...)
}

// ------------------------------ reference ----------------------------------

var (
	referenceOnce  sync.Once
	referenceJudge *Judge
)

// Reference returns the judge compiled from the embedded reference deck.
// The embedded decks ship with the binary, so a failure here is a build
// defect and panics.
func Reference() *Judge {
	referenceOnce.Do(func() {
		decks, err := EmbeddedDecks()
		if err != nil {
			panic(err)
		}
		for _, d := range decks {
			if d.Locale != ReferenceLocale {
				continue
			}
			j, err := NewJudge(d)
			if err != nil {
				panic(fmt.Errorf("reference deck: %w", err))
			}
			referenceJudge = j
		}
		if referenceJudge == nil {
			panic(fmt.Errorf("reference deck: %w: %q", ErrUnknownLocale, ReferenceLocale))
		}
	})
	return referenceJudge
}

// ClassifyQuestion answers a question against the reference deck.
func ClassifyQuestion(text string) Verdict { return Reference().ClassifyQuestion(text) }

// JudgeGuess judges a guess against the reference deck.
func JudgeGuess(text string) bool { return Reference().JudgeGuess(text) }
