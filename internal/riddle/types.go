// internal/riddle/types.go
//
// Core type definitions for the riddle judge.
// Defines:
//   - Verdict: the four fixed answers to a yes/no question.
//   - Scenario: the riddle prompt and its hidden solution.

package riddle

// Verdict is the judge's answer to a question.
type Verdict string

const (
	Affirmative Verdict = "affirmative"
	Negative    Verdict = "negative"
	Irrelevant  Verdict = "irrelevant"
	Unknown     Verdict = "unknown"
)

// Verdicts lists every verdict in rule order.
var Verdicts = []Verdict{Affirmative, Negative, Irrelevant, Unknown}

// Valid reports whether v is one of the four verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case Affirmative, Negative, Irrelevant, Unknown:
		return true
	}
	return false
}

// Scenario is the riddle shown to the player (Prompt) and the answer it
// hides (Solution). Both are fixed once a deck is loaded.
type Scenario struct {
	Prompt   string `yaml:"prompt" json:"prompt"`
	Solution string `yaml:"solution" json:"-"`
}

// Input modes a front-end may pass to Placeholder.
const (
	ModeQuestion = "question"
	ModeGuess    = "guess"
)
