// internal/game/engine.go
//
// Conversation engine for a single riddle session.
// Responsibilities:
//   - Create sessions with the intro message and question mode selected.
//   - Toggle between question and guess mode.
//   - Route player input to the judge for the active mode and append both
//     the player's message and the judge's reply to the transcript.
//
// Notes:
//   - Verdicts come from the riddle package; this package only renders and
//     records them. Each input is judged on its own: there is no scoring
//     and no memory of earlier turns in the judge.
//   - Blank input is rejected without touching the transcript.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/soup-riddle/internal/riddle"
)

var (
	ErrEmptyInput  = errors.New("empty input")
	ErrInvalidMode = errors.New("invalid mode")
)

// New starts a session in question mode with the judge's intro message.
func New(j *riddle.Judge) *Session {
	s := &Session{
		ID:        randomID(),
		Locale:    j.Locale(),
		Mode:      ModeQuestion,
		CreatedAt: time.Now().UTC(),
		judge:     j,
	}
	s.push(RoleSystem, j.Intro(), "")
	return s
}

// ParseMode converts a string into a Mode.
func ParseMode(m string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(m))) {
	case ModeQuestion:
		return ModeQuestion, nil
	case ModeGuess:
		return ModeGuess, nil
	}
	return "", ErrInvalidMode
}

// SetMode switches the input mode.
func (s *Session) SetMode(m Mode) error {
	if m != ModeQuestion && m != ModeGuess {
		return ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Mode = m
	return nil
}

// Send judges one line of player input in the current mode.
// Returns the two appended messages: the player's text and the reply.
//
// Question mode replies with the verdict's display string; guess mode
// replies with the solution on success or the static encouragement.
func (s *Session) Send(text string) ([]Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var reply, outcome string
	if s.Mode == ModeGuess {
		ok := s.judge.JudgeGuess(text)
		outcome = OutcomeNotSolved
		if ok {
			s.Solved = true
			outcome = OutcomeSolved
		}
		reply = s.judge.GuessReply(ok)
	} else {
		v := s.judge.ClassifyQuestion(text)
		reply, outcome = s.judge.Reply(v), string(v)
	}

	user := s.push(RoleUser, text, "")
	sys := s.push(RoleSystem, reply, outcome)
	return []Message{user, sys}, nil
}

// Snapshot copies the session state for serialization.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:          s.ID,
		Locale:      s.Locale,
		Mode:        s.Mode,
		Placeholder: s.judge.Placeholder(string(s.Mode)),
		Solved:      s.Solved,
		Messages:    append([]Message(nil), s.Messages...),
		CreatedAt:   s.CreatedAt,
	}
}

// Scenario exposes the riddle prompt of the session's judge.
func (s *Session) Scenario() riddle.Scenario { return s.judge.Scenario() }

// push appends a message. Callers hold s.mu (or own s exclusively).
func (s *Session) push(role Role, content, outcome string) Message {
	m := Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Seq:     len(s.Messages) + 1,
		Outcome: outcome,
	}
	s.Messages = append(s.Messages, m)
	return m
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
