// internal/store/memory.go
//
// In-memory implementation of Store for puzzle sessions.
//
// Characteristics:
//   - Stores *game.Session values keyed by ID in a map.
//   - Update runs the callback under the write lock, so one request at a
//     time mutates a given session.
//   - Sweep evicts sessions nobody has touched since a cutoff.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/cosmicword/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for puzzle sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID. Reads that may race with Update
	// should go through Update instead.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Update applies fn to the stored session while holding exclusive access.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// Sweep removes sessions last saved or updated before cutoff and
	// reports how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type entry struct {
	sess    *game.Session
	touched time.Time
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{sess: s, touched: time.Now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.sess, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.touched = time.Now()
	return fn(e.sess)
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
