// internal/game/types.go
//
// Core type definitions for a single puzzle session.
// Defines:
//   - Session: state for one in-progress or finished puzzle.
//   - Result:  outcome of a single guess.
//   - Hint:    a revealed letter position.
//   - Outcome: summary handed to stats once the puzzle is over.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/words"
)

// MaxHints is the number of hints a player may use per puzzle.
const MaxHints = 3

var (
	ErrFinished          = errors.New("game finished")
	ErrInvalidLength     = errors.New("invalid guess length")
	ErrNotAlphabetic     = errors.New("guess must contain only letters")
	ErrHintsExhausted    = errors.New("no hints left")
	ErrNoHintAvailable   = errors.New("every position already solved")
	ErrMissionInProgress = errors.New("cannot change difficulty during an active puzzle")
)

// Session holds the state of one puzzle. It is owned by a single caller and is
// not safe for concurrent use; the store serialises access per session.
type Session struct {
	ID         string            // Unique session identifier (uuid).
	Difficulty puzzle.Difficulty // Active tier.
	Target     string            // Uppercase target word.
	Daily      bool              // Target picked by the daily schedule.
	Owner      string            // User ID credited with the result; empty for guests.
	Guesses    []string          // Uppercase guesses in submission order.
	Status     puzzle.Status     // playing | won | lost
	Hints      []Hint            // Hints revealed so far.
	Score      int               // Points earned; set on win.
	StartedAt  time.Time
	FinishedAt time.Time

	lists *words.Lists
	now   func() time.Time
}

// Result is returned from Session.Guess.
type Result struct {
	Guess    string                `json:"guess"`
	Statuses []puzzle.LetterStatus `json:"statuses"`
	Status   puzzle.Status         `json:"status"`
	Attempts int                   `json:"attempts"`
	Score    int                   `json:"score,omitempty"`
}

// Hint reveals the letter at Position (0-based).
type Hint struct {
	Position int    `json:"position"`
	Letter   string `json:"letter"`
}

// Outcome summarises a finished puzzle for stats and history.
type Outcome struct {
	SessionID  string
	Difficulty puzzle.Difficulty
	Target     string
	Won        bool
	Daily      bool // Counts towards the once-a-day daily results.
	Attempts   int
	Hints      int
	Score      int
	StartedAt  time.Time
	FinishedAt time.Time
}
