package game

import (
	"time"

	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// Row is one submitted guess with its classification.
type Row struct {
	Guess    string                `json:"guess"`
	Statuses []puzzle.LetterStatus `json:"statuses"`
}

// View is the client-facing snapshot of a session. The target is only
// included once the puzzle is over.
type View struct {
	ID          string                         `json:"gameId"`
	Difficulty  puzzle.Difficulty              `json:"difficulty"`
	WordLength  int                            `json:"wordLength"`
	MaxAttempts int                            `json:"maxAttempts"`
	Daily       bool                           `json:"daily"`
	Status      puzzle.Status                  `json:"status"`
	Rows        []Row                          `json:"rows"`
	Keyboard    map[string]puzzle.LetterStatus `json:"keyboard"`
	Hints       []Hint                         `json:"hints"`
	HintsLeft   int                            `json:"hintsLeft"`
	Score       int                            `json:"score"`
	Target      string                         `json:"target,omitempty"`
	StartedAt   time.Time                      `json:"startedAt"`
}

// View builds the snapshot.
func (s *Session) View() View {
	rows := make([]Row, 0, len(s.Guesses))
	for _, g := range s.Guesses {
		rows = append(rows, Row{Guess: g, Statuses: puzzle.Evaluate(g, s.Target)})
	}
	v := View{
		ID:          s.ID,
		Difficulty:  s.Difficulty,
		WordLength:  puzzle.WordLength(s.Difficulty),
		MaxAttempts: puzzle.MaxAttempts(s.Difficulty),
		Daily:       s.Daily,
		Status:      s.Status,
		Rows:        rows,
		Keyboard:    s.Keyboard(),
		Hints:       append([]Hint{}, s.Hints...),
		HintsLeft:   s.HintsLeft(),
		Score:       s.Score,
		StartedAt:   s.StartedAt,
	}
	if s.Status.Finished() {
		v.Target = s.Target
	}
	return v
}
