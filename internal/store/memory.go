// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Sessions are ephemeral: nothing is written to disk and every session
// expires after a fixed idle TTL.
//
// Characteristics:
//   - Backed by go-cache, which is safe for concurrent use.
//   - Save refreshes the TTL; an idle session disappears after ttl.
//   - Expired entries are swept every cleanup interval.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/robalobadob/soup-riddle/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for riddle sessions.
type Store interface {
	// Save stores or refreshes a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

// memory is a go-cache backed Store.
type memory struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore constructs an expiring in-memory Store.
// A non-positive ttl keeps sessions until the process exits.
func NewMemoryStore(ttl time.Duration) Store {
	cleanup := ttl / 2
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	} else if cleanup < time.Second {
		cleanup = time.Second
	}
	return &memory{cache: gocache.New(ttl, cleanup), ttl: ttl}
}

// Save adds or updates the session, resetting its expiry.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.cache.Set(s.ID, s, m.ttl)
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	if v, ok := m.cache.Get(id); ok {
		return v.(*game.Session), nil
	}
	return nil, ErrNotFound
}

// Delete removes a session.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

// Len counts sessions, including expired ones not yet swept.
func (m *memory) Len() int { return m.cache.ItemCount() }
