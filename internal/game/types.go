// internal/game/types.go
//
// Core type definitions for a riddle conversation.
// Defines:
//   - Role: who wrote a message (the system judge or the player).
//   - Message: one entry of the conversation.
//   - Session: state of a single conversation (mode + transcript).
//   - View: read-only snapshot handed to front-ends.

package game

import (
	"sync"
	"time"

	"github.com/robalobadob/soup-riddle/internal/riddle"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Mode selects which judge operation handles player input.
type Mode string

const (
	ModeQuestion Mode = riddle.ModeQuestion
	ModeGuess    Mode = riddle.ModeGuess
)

// Message is one line of the conversation.
type Message struct {
	ID      string `json:"id"`      // UUID
	Role    Role   `json:"role"`    // "system" | "user"
	Content string `json:"content"` // display text
	Seq     int    `json:"seq"`     // arrival order, starting at 1

	// Outcome tags system replies: a question verdict, or OutcomeSolved /
	// OutcomeNotSolved for guesses. Empty on user and intro messages.
	Outcome string `json:"outcome,omitempty"`
}

// Guess outcomes carried by reply messages.
const (
	OutcomeSolved    = "solved"
	OutcomeNotSolved = "not_solved"
)

// Session holds the state of a single riddle conversation.
// The judge itself is stateless; everything that changes lives here.
type Session struct {
	mu sync.Mutex

	ID        string        // random hex id
	Locale    string        // locale of the judge
	Mode      Mode          // current input mode
	Messages  []Message     // transcript, oldest first
	Solved    bool          // true once any guess succeeded
	CreatedAt time.Time     // UTC
	judge     *riddle.Judge // answers questions and guesses
}

// View is a copy of a session's state, safe to serialize.
type View struct {
	ID          string    `json:"id"`
	Locale      string    `json:"locale"`
	Mode        Mode      `json:"mode"`
	Placeholder string    `json:"placeholder"`
	Solved      bool      `json:"solved"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"createdAt"`
}
