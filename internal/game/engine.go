// internal/game/engine.go
//
// Session controller for a single puzzle.
// Responsibilities:
//   - Create sessions with a target drawn from the tier's word list.
//   - Validate and apply guesses (length, alphabetic).
//   - Track state transitions: playing → won/lost, reset → playing.
//   - Hand out hints, bounded per puzzle.
//
// Evaluation and scoring themselves live in the puzzle package.

package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/words"
)

// Option customises New.
type Option func(*Session)

// WithTarget fixes the target word instead of drawing one.
func WithTarget(w string) Option {
	return func(s *Session) { s.Target = strings.ToUpper(strings.TrimSpace(w)) }
}

// WithDaily marks the session as the daily puzzle for its tier.
func WithDaily() Option {
	return func(s *Session) { s.Daily = true }
}

// WithOwner credits the session's result to a user.
func WithOwner(userID string) Option {
	return func(s *Session) { s.Owner = userID }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session at difficulty d. Unknown tiers fall back to easy.
func New(lists *words.Lists, d puzzle.Difficulty, rng puzzle.Rand, opts ...Option) *Session {
	if !d.Valid() {
		d = puzzle.Easy
	}
	s := &Session{
		ID:         uuid.NewString(),
		Difficulty: d,
		Status:     puzzle.Playing,
		Guesses:    []string{},
		Hints:      []Hint{},
		lists:      lists,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Target == "" {
		s.Target = lists.Random(d, rng)
	}
	s.StartedAt = s.now().UTC()
	return s
}

// Guess validates and applies a guess, mutating the session.
//
// Validation rules:
//   - Session must still be playing.
//   - Guess must have exactly as many letters as the target.
//   - Guess must be ASCII letters only.
//
// State transitions:
//   - Exact match → won, score computed.
//   - Otherwise, attempts reaching the tier's budget → lost.
func (s *Session) Guess(word string) (Result, error) {
	if s.Status.Finished() {
		return Result{Status: s.Status, Attempts: len(s.Guesses)}, ErrFinished
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if utf8.RuneCountInString(word) != utf8.RuneCountInString(s.Target) {
		return Result{Status: s.Status, Attempts: len(s.Guesses)}, ErrInvalidLength
	}
	if !words.IsAlpha(word) {
		return Result{Status: s.Status, Attempts: len(s.Guesses)}, ErrNotAlphabetic
	}

	statuses := puzzle.Evaluate(word, s.Target)
	s.Guesses = append(s.Guesses, word)

	switch {
	case word == s.Target:
		s.Status = puzzle.Won
		s.Score = puzzle.CalculateScore(len(s.Guesses), len(s.Hints), s.Difficulty)
		s.FinishedAt = s.now().UTC()
	case len(s.Guesses) >= puzzle.MaxAttempts(s.Difficulty):
		s.Status = puzzle.Lost
		s.FinishedAt = s.now().UTC()
	}

	return Result{
		Guess:    word,
		Statuses: statuses,
		Status:   s.Status,
		Attempts: len(s.Guesses),
		Score:    s.Score,
	}, nil
}

// Hint reveals a letter the player has not placed yet.
// A no-hint outcome does not use up one of the player's hints, so it adds no
// score penalty. Earlier versions of the game charged a hint here anyway.
func (s *Session) Hint(rng puzzle.Rand) (Hint, error) {
	if s.Status.Finished() {
		return Hint{}, ErrFinished
	}
	if len(s.Hints) >= MaxHints {
		return Hint{}, ErrHintsExhausted
	}
	pos, ok := puzzle.SelectHint(s.Guesses, s.Target, rng)
	if !ok {
		return Hint{}, ErrNoHintAvailable
	}
	h := Hint{Position: pos, Letter: string([]rune(s.Target)[pos])}
	s.Hints = append(s.Hints, h)
	return h, nil
}

// HintsLeft is the number of hints still available.
func (s *Session) HintsLeft() int {
	if n := MaxHints - len(s.Hints); n > 0 {
		return n
	}
	return 0
}

// Reset starts a fresh puzzle at the same difficulty.
func (s *Session) Reset(rng puzzle.Rand) {
	s.Target = s.lists.Random(s.Difficulty, rng)
	s.Daily = false
	s.Guesses = []string{}
	s.Hints = []Hint{}
	s.Status = puzzle.Playing
	s.Score = 0
	s.StartedAt = s.now().UTC()
	s.FinishedAt = time.Time{}
}

// ChangeDifficulty switches tier and starts a fresh puzzle. It is refused
// while a puzzle is under way.
func (s *Session) ChangeDifficulty(d puzzle.Difficulty, rng puzzle.Rand) error {
	if s.Status == puzzle.Playing && len(s.Guesses) > 0 {
		return ErrMissionInProgress
	}
	if !d.Valid() {
		d = puzzle.Easy
	}
	s.Difficulty = d
	s.Reset(rng)
	return nil
}

// Keyboard returns the aggregated status of every letter guessed so far.
func (s *Session) Keyboard() map[string]puzzle.LetterStatus {
	agg := puzzle.KeyboardStatuses(s.Guesses, s.Target)
	out := make(map[string]puzzle.LetterStatus, len(agg))
	for r, st := range agg {
		out[string(r)] = st
	}
	return out
}

// Outcome summarises a finished session. ok is false while still playing.
func (s *Session) Outcome() (Outcome, bool) {
	if !s.Status.Finished() {
		return Outcome{}, false
	}
	return Outcome{
		SessionID:  s.ID,
		Difficulty: s.Difficulty,
		Target:     s.Target,
		Won:        s.Status == puzzle.Won,
		Daily:      s.Daily,
		Attempts:   len(s.Guesses),
		Hints:      len(s.Hints),
		Score:      s.Score,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}, true
}
