package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/robalobadob/cosmicword/internal/daily"
	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/stats"
)

// SQLStore is a Store backed by the SQLite schema in assets/sql.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

const userColumns = `id, username, email, password_hash, created_at, total_points, games_played,
	games_won, current_streak, max_streak, hints_used, total_attempts, perfect_games`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var created string
	r := &u.Stats
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created,
		&r.TotalPoints, &r.GamesPlayed, &r.GamesWon, &r.CurrentStreak, &r.MaxStreak,
		&r.HintsUsed, &r.TotalAttempts, &r.PerfectGames); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	r.Tiers = map[puzzle.Difficulty]stats.TierStats{}
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func (s *SQLStore) Create(ctx context.Context, nu NewUser) (*User, error) {
	if taken, err := s.exists(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, nu.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.exists(ctx, `SELECT 1 FROM users WHERE lower(email)=lower(?)`, nu.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     nu.Username,
		Email:        strings.ToLower(nu.Email),
		PasswordHash: nu.PasswordHash,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
		Stats:        stats.Record{Tiers: map[puzzle.Difficulty]stats.TierStats{}},
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, insertErr(err)
	}
	return u, nil
}

func (s *SQLStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// insertErr maps a unique index violation lost to a concurrent signup onto
// the matching sentinel.
func insertErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		switch {
		case strings.Contains(se.Error(), "users_email_idx"):
			return ErrEmailTaken
		case strings.Contains(se.Error(), "users_username_idx"):
			return ErrUsernameTaken
		}
	}
	return fmt.Errorf("insert user: %w", err)
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
}

func (s *SQLStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower(?)`, strings.TrimSpace(email))
}

func (s *SQLStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	tiers, err := s.tiers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Stats.Tiers = tiers[u.ID]
	if u.Stats.Tiers == nil {
		u.Stats.Tiers = map[puzzle.Difficulty]stats.TierStats{}
	}
	return u, nil
}

// tiers loads per-difficulty counters, for one user or all when id is empty.
func (s *SQLStore) tiers(ctx context.Context, id string) (map[string]map[puzzle.Difficulty]stats.TierStats, error) {
	query := `SELECT user_id, difficulty, played, won FROM tier_stats`
	var args []any
	if id != "" {
		query += ` WHERE user_id=?`
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]map[puzzle.Difficulty]stats.TierStats)
	for rows.Next() {
		var uid, d string
		var ts stats.TierStats
		if err := rows.Scan(&uid, &d, &ts.Played, &ts.Won); err != nil {
			return nil, err
		}
		if out[uid] == nil {
			out[uid] = make(map[puzzle.Difficulty]stats.TierStats)
		}
		out[uid][puzzle.Difficulty(d)] = ts
	}
	return out, rows.Err()
}

func (s *SQLStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tiers, err := s.tiers(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range out {
		if t := tiers[out[i].ID]; t != nil {
			out[i].Stats.Tiers = t
		}
	}
	return out, nil
}

func (s *SQLStore) ApplyOutcome(ctx context.Context, userID string, out game.Outcome) (*User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	u, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, userID))
	if err != nil {
		return nil, err
	}
	if out.Daily {
		inserted, err := daily.InsertResult(ctx, tx, daily.Result{
			UserID:     userID,
			Date:       daily.DateKey(out.StartedAt),
			Difficulty: out.Difficulty,
			SessionID:  out.SessionID,
			Won:        out.Won,
			Attempts:   out.Attempts,
			Hints:      out.Hints,
			Score:      out.Score,
			ElapsedMs:  out.FinishedAt.Sub(out.StartedAt).Milliseconds(),
			CreatedAt:  s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("insert daily result: %w", err)
		}
		if !inserted {
			return nil, daily.ErrAlreadyPlayed
		}
	}
	rows, err := tx.QueryContext(ctx, `SELECT difficulty, played, won FROM tier_stats WHERE user_id=?`, userID)
	if err != nil {
		return nil, fmt.Errorf("load tier stats: %w", err)
	}
	for rows.Next() {
		var d string
		var ts stats.TierStats
		if err := rows.Scan(&d, &ts.Played, &ts.Won); err != nil {
			rows.Close()
			return nil, fmt.Errorf("load tier stats: %w", err)
		}
		u.Stats.Tiers[puzzle.Difficulty(d)] = ts
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load tier stats: %w", err)
	}

	r := stats.Apply(u.Stats, out)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET total_points=?, games_played=?, games_won=?,
		current_streak=?, max_streak=?, hints_used=?, total_attempts=?, perfect_games=? WHERE id=?`,
		r.TotalPoints, r.GamesPlayed, r.GamesWon, r.CurrentStreak, r.MaxStreak,
		r.HintsUsed, r.TotalAttempts, r.PerfectGames, userID); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}
	nt := r.Tier(out.Difficulty)
	if _, err := tx.ExecContext(ctx, `INSERT INTO tier_stats (user_id, difficulty, played, won) VALUES (?,?,?,?)
		ON CONFLICT(user_id, difficulty) DO UPDATE SET played=excluded.played, won=excluded.won`,
		userID, string(out.Difficulty), nt.Played, nt.Won); err != nil {
		return nil, fmt.Errorf("update tier stats: %w", err)
	}

	status := string(puzzle.Lost)
	if out.Won {
		status = string(puzzle.Won)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO games (id, session_id, user_id, difficulty, target, status, attempts, hints, score, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), out.SessionID, userID, string(out.Difficulty), out.Target, status, out.Attempts, out.Hints, out.Score,
		out.StartedAt.UTC().Format(time.RFC3339), out.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	u.Stats = r
	return u, nil
}

func (s *SQLStore) RecentGames(ctx context.Context, userID string, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, difficulty, target, status, attempts, hints, score, started_at, finished_at
		FROM games WHERE user_id=? ORDER BY finished_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		var started, finished string
		if err := rows.Scan(&g.ID, &g.Difficulty, &g.Target, &g.Status, &g.Attempts, &g.Hints, &g.Score, &started, &finished); err != nil {
			return nil, err
		}
		g.StartedAt = mustParse(started)
		g.FinishedAt = mustParse(finished)
		out = append(out, g)
	}
	return out, rows.Err()
}

// demoPlayers mirrors the launch leaderboard so a fresh install is not empty.
var demoPlayers = []struct {
	name   string
	points int
	won    int
}{
	{"CosmicMaster", 4850, 120},
	{"StarGazer", 3200, 85},
	{"GalacticQueen", 2800, 72},
	{"NebulaNinja", 2100, 65},
	{"CosmicCoder", 1950, 58},
	{"AstralWanderer", 1700, 52},
	{"VoidVoyager", 1500, 45},
	{"PlanetaryPioneer", 1200, 40},
	{"StellarSage", 900, 35},
	{"MoonMystic", 750, 30},
}

// SeedDemo inserts the demo leaderboard players that are not present yet.
// They carry no password hash and cannot log in.
func (s *SQLStore) SeedDemo(ctx context.Context) (int, error) {
	created := 0
	now := s.now().UTC().Format(time.RFC3339)
	for _, p := range demoPlayers {
		res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO users
			(id, username, email, password_hash, created_at, total_points, games_played, games_won)
			VALUES (?,?,?,?,?,?,?,?)`,
			uuid.NewString(), p.name, strings.ToLower(p.name)+"@demo.invalid", "", now, p.points, p.won, p.won)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", p.name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}
