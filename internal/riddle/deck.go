// internal/riddle/deck.go
//
// A Deck is one locale's copy of the riddle: the scenario, the keyword
// tables the judge matches against, and the strings shown to the player.
// Decks are decoded from YAML (see assets/decks) and validated before a
// Judge is compiled from them.

package riddle

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyKeywords = errors.New("riddle: keyword set is empty")
	ErrBlankKeyword  = errors.New("riddle: keyword is blank after normalization")
	ErrUnknownLocale = errors.New("riddle: unknown locale")
)

// Deck holds everything locale-specific about the riddle.
type Deck struct {
	Locale            string       `yaml:"locale"`
	Scenario          Scenario     `yaml:"scenario"`
	SoupToken         string       `yaml:"soup_token"`
	Categories        Categories   `yaml:"categories"`
	Negative          []string     `yaml:"negative"`
	IrrelevantMarkers []string     `yaml:"irrelevant_markers"`
	Replies           Replies      `yaml:"replies"`
	Intro             string       `yaml:"intro"`
	Placeholders      Placeholders `yaml:"placeholders"`
}

// Categories are the three narrative elements of the solution.
type Categories struct {
	Shipwreck         []string `yaml:"shipwreck"`
	Cannibalism       []string `yaml:"cannibalism"`
	RealizeDifference []string `yaml:"realize_difference"`
}

// Replies are the display strings for verdicts and guess results.
// Solved is a format string; %s receives the solution.
type Replies struct {
	Affirmative string `yaml:"affirmative"`
	Negative    string `yaml:"negative"`
	Irrelevant  string `yaml:"irrelevant"`
	Unknown     string `yaml:"unknown"`
	Solved      string `yaml:"solved"`
	NotSolved   string `yaml:"not_solved"`
}

// Placeholders are input hints per mode.
type Placeholders struct {
	Question string `yaml:"question"`
	Guess    string `yaml:"guess"`
}

// ParseDeck decodes and validates a YAML deck. Unknown fields are rejected.
func ParseDeck(b []byte) (*Deck, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var d Deck
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadDeckFile loads a deck from disk.
func ReadDeckFile(path string) (*Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck %s: %w", path, err)
	}
	d, err := ParseDeck(b)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Validate checks that every field the judge and front-ends rely on is set.
// Keyword sets are checked again, after normalization, when the Judge is
// compiled.
func (d *Deck) Validate() error {
	required := []struct {
		name, value string
	}{
		{"locale", d.Locale},
		{"scenario.prompt", d.Scenario.Prompt},
		{"scenario.solution", d.Scenario.Solution},
		{"soup_token", Normalize(d.SoupToken)},
		{"replies.affirmative", d.Replies.Affirmative},
		{"replies.negative", d.Replies.Negative},
		{"replies.irrelevant", d.Replies.Irrelevant},
		{"replies.unknown", d.Replies.Unknown},
		{"replies.solved", d.Replies.Solved},
		{"replies.not_solved", d.Replies.NotSolved},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("deck %q: %s is required", d.Locale, f.name)
		}
	}

	sets := []struct {
		name  string
		words []string
	}{
		{"categories.shipwreck", d.Categories.Shipwreck},
		{"categories.cannibalism", d.Categories.Cannibalism},
		{"categories.realize_difference", d.Categories.RealizeDifference},
		{"negative", d.Negative},
		{"irrelevant_markers", d.IrrelevantMarkers},
	}
	for _, s := range sets {
		if len(s.words) == 0 {
			return fmt.Errorf("deck %q: %s: %w", d.Locale, s.name, ErrEmptyKeywords)
		}
	}
	return nil
}
