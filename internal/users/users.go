// internal/users/users.go
//
// Player accounts and their cumulative stats.
//
// Store is the replaceable collaborator the HTTP layer talks to. It persists
// an opaque password hash; hashing and verification belong to the caller.

package users

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/stats"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// User is a player account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
	Stats        stats.Record `json:"stats"`
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

// GameRow is one finished puzzle in a player's history.
type GameRow struct {
	ID         string    `json:"id"`
	Difficulty string    `json:"difficulty"`
	Target     string    `json:"target"`
	Status     string    `json:"status"`
	Attempts   int       `json:"attempts"`
	Hints      int       `json:"hints"`
	Score      int       `json:"score"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Store defines account persistence.
type Store interface {
	// Create inserts a new account. Username and email are unique, case-insensitively.
	Create(ctx context.Context, nu NewUser) (*User, error)

	// FindByID / FindByEmail return ErrNotFound when missing.
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List returns every account with stats, in no particular order.
	List(ctx context.Context) ([]User, error)

	// ApplyOutcome folds a finished puzzle into the user's stats and records
	// it in their history, returning the updated user. A second daily result
	// for the same date and tier is refused with daily.ErrAlreadyPlayed and
	// leaves the stats untouched.
	ApplyOutcome(ctx context.Context, userID string, out game.Outcome) (*User, error)

	// RecentGames returns the user's latest finished puzzles, newest first.
	RecentGames(ctx context.Context, userID string, limit int) ([]GameRow, error)
}
