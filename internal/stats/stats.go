// internal/stats/stats.go
//
// Cumulative player statistics.
//
// Apply folds one finished puzzle into a player's Record:
//   - every game: gamesPlayed, tier played, hints and attempts accumulate
//   - win:  points += score, gamesWon, tier won, streak + max streak,
//           perfect game when solved on the first attempt
//   - loss: current streak resets to zero

package stats

import (
	"github.com/robalobadob/cosmicword/internal/game"
	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// TierStats counts games for a single difficulty.
type TierStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
}

// Record is the cumulative stats block of one player.
type Record struct {
	TotalPoints   int                             `json:"totalPoints"`
	GamesPlayed   int                             `json:"gamesPlayed"`
	GamesWon      int                             `json:"gamesWon"`
	CurrentStreak int                             `json:"currentStreak"`
	MaxStreak     int                             `json:"maxStreak"`
	HintsUsed     int                             `json:"hintsUsed"`
	TotalAttempts int                             `json:"totalAttempts"`
	PerfectGames  int                             `json:"perfectGames"`
	Tiers         map[puzzle.Difficulty]TierStats `json:"tiers"`
}

// Tier returns the counters for d (zero value if none).
func (r Record) Tier(d puzzle.Difficulty) TierStats {
	return r.Tiers[d]
}

// Apply returns rec updated with the outcome of a finished puzzle.
// rec is not modified.
func Apply(rec Record, out game.Outcome) Record {
	next := rec
	next.Tiers = make(map[puzzle.Difficulty]TierStats, len(rec.Tiers)+1)
	for d, ts := range rec.Tiers {
		next.Tiers[d] = ts
	}

	ts := next.Tiers[out.Difficulty]
	ts.Played++
	next.GamesPlayed++
	next.HintsUsed += out.Hints
	next.TotalAttempts += out.Attempts

	if out.Won {
		ts.Won++
		next.GamesWon++
		next.TotalPoints += out.Score
		next.CurrentStreak++
		if next.CurrentStreak > next.MaxStreak {
			next.MaxStreak = next.CurrentStreak
		}
		if out.Attempts == 1 {
			next.PerfectGames++
		}
	} else {
		next.CurrentStreak = 0
	}
	next.Tiers[out.Difficulty] = ts
	return next
}

// WinRate is the rounded percentage of games won, 0 with no games.
func (r Record) WinRate() int {
	if r.GamesPlayed == 0 {
		return 0
	}
	return int(float64(r.GamesWon)/float64(r.GamesPlayed)*100 + 0.5)
}
