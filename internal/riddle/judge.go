// internal/riddle/judge.go
//
// Judge compiles a Deck into read-only keyword matchers and answers
// questions and guesses against it.
// Responsibilities:
//   - Compile each keyword set into an Aho-Corasick matcher once.
//   - Decide guesses: a guess is correct only when it names all three
//     elements of the solution (shipwreck, cannibalism, the soup tasting
//     different). Partial guesses always fail.
//   - Render verdicts and guess results into the deck's display strings.
//
// A Judge holds no mutable state and is safe for concurrent use.

package riddle

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Judge answers questions and guesses for one deck.
type Judge struct {
	deck *Deck

	soupToken   string
	shipwreck   *matcher
	cannibalism *matcher
	realize     *matcher
	negative    *matcher
	irrelevant  *matcher

	rules []rule
}

// NewJudge validates d and compiles its keyword tables.
func NewJudge(d *Deck) (*Judge, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	j := &Judge{deck: d, soupToken: Normalize(d.SoupToken)}

	sets := []struct {
		name  string
		words []string
		dst   **matcher
	}{
		{"shipwreck", d.Categories.Shipwreck, &j.shipwreck},
		{"cannibalism", d.Categories.Cannibalism, &j.cannibalism},
		{"realize_difference", d.Categories.RealizeDifference, &j.realize},
		{"negative", d.Negative, &j.negative},
		{"irrelevant_markers", d.IrrelevantMarkers, &j.irrelevant},
	}
	for _, s := range sets {
		m, err := newMatcher(s.words)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %s: %w", d.Locale, s.name, err)
		}
		*s.dst = m
	}

	affirmative := lo.Flatten([][]string{j.shipwreck.keywords, j.cannibalism.keywords, j.realize.keywords})
	if overlap := lo.Intersect(affirmative, j.negative.keywords); len(overlap) > 0 {
		log.Warn().Str("locale", d.Locale).Strs("keywords", overlap).
			Msg("keywords appear in both affirmative and negative sets")
	}

	j.rules = j.buildRules()
	return j, nil
}

// JudgeGuess normalizes a free-text guess and reports whether it solves
// the riddle. It never fails; empty input is false.
func (j *Judge) JudgeGuess(text string) bool {
	return j.judge(Normalize(text))
}

// judge is the conjunctive check over normalized text.
func (j *Judge) judge(g string) bool {
	return j.shipwreck.contains(g) &&
		j.cannibalism.contains(g) &&
		j.soupDiffers(g)
}

// Locale returns the deck's locale tag.
func (j *Judge) Locale() string { return j.deck.Locale }

// Scenario returns the riddle this judge answers for.
func (j *Judge) Scenario() Scenario { return j.deck.Scenario }

// Reply renders a verdict as the deck's display string.
func (j *Judge) Reply(v Verdict) string {
	r := j.deck.Replies
	switch v {
	case Affirmative:
		return r.Affirmative
	case Negative:
		return r.Negative
	case Irrelevant:
		return r.Irrelevant
	default:
		return r.Unknown
	}
}

// GuessReply renders a guess result. A correct guess reveals the solution.
func (j *Judge) GuessReply(solved bool) string {
	if solved {
		return formatOne(j.deck.Replies.Solved, j.deck.Scenario.Solution)
	}
	return j.deck.Replies.NotSolved
}

// Intro is the opening message presenting the riddle.
func (j *Judge) Intro() string {
	if j.deck.Intro == "" {
		return j.deck.Scenario.Prompt
	}
	return formatOne(j.deck.Intro, j.deck.Scenario.Prompt)
}

// Placeholder returns the input hint for a mode ("question" or "guess").
func (j *Judge) Placeholder(mode string) string {
	if mode == ModeGuess {
		return j.deck.Placeholders.Guess
	}
	return j.deck.Placeholders.Question
}

// containsToken is a plain substring test over normalized text.
func containsToken(text, token string) bool {
	return token != "" && strings.Contains(text, token)
}

// formatOne substitutes arg into a template with a single %s, or appends
// it when the template has none.
func formatOne(tmpl, arg string) string {
	if strings.Contains(tmpl, "%s") {
		return strings.Replace(tmpl, "%s", arg, 1)
	}
	return tmpl + " " + arg
}
