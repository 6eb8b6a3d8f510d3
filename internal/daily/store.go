package daily

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// ErrAlreadyPlayed is returned when a player has a result for today's puzzle.
var ErrAlreadyPlayed = errors.New("daily puzzle already played")

// Result is one player's finished daily puzzle.
type Result struct {
	UserID     string
	Date       string
	Difficulty puzzle.Difficulty
	SessionID  string
	Won        bool
	Attempts   int
	Hints      int
	Score      int
	ElapsedMs  int64
	CreatedAt  time.Time
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertResult records r unless the player already has a result for that
// date and tier. inserted is false when the row already existed.
func InsertResult(ctx context.Context, ex Execer, r Result) (inserted bool, err error) {
	res, err := ex.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results
		(user_id, date, difficulty, session_id, won, attempts, hints, score, elapsed_ms, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		r.UserID, r.Date, string(r.Difficulty), r.SessionID, r.Won, r.Attempts, r.Hints, r.Score,
		r.ElapsedMs, r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has finished the tier's puzzle for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string, d puzzle.Difficulty) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=? AND difficulty=?",
		userID, date, string(d),
	).Scan(&cnt)
	return cnt > 0, err
}

// LBRow is one line of a daily leaderboard.
type LBRow struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Won       bool   `json:"won"`
	Attempts  int    `json:"attempts"`
	Hints     int    `json:"hints"`
	Score     int    `json:"score"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the best results for one date and tier: winners first,
// then by score, fewest attempts, fastest time and earliest finish.
func (s *Store) Leaderboard(ctx context.Context, date string, d puzzle.Difficulty, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.user_id, u.username, r.won, r.attempts, r.hints, r.score, r.elapsed_ms
		FROM daily_results r JOIN users u ON u.id = r.user_id
		WHERE r.date=? AND r.difficulty=?
		ORDER BY r.won DESC, r.score DESC, r.attempts ASC, r.elapsed_ms ASC, r.created_at ASC
		LIMIT ?`, date, string(d), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Won, &r.Attempts, &r.Hints, &r.Score, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
