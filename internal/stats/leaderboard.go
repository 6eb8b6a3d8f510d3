package stats

import (
	"sort"
	"strings"

	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	ByPoints SortKey = "points"
	ByWins   SortKey = "wins"
)

// ParseSortKey maps a query value to a SortKey, defaulting to points.
func ParseSortKey(s string) SortKey {
	if SortKey(strings.ToLower(s)) == ByWins {
		return ByWins
	}
	return ByPoints
}

// DefaultLimit is the size of the public leaderboard.
const DefaultLimit = 10

// Entry is one leaderboard row.
type Entry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
	GamesWon    int    `json:"gamesWon"`
	Level       int    `json:"level"`
}

// Board is a ranked leaderboard.
type Board struct {
	By      SortKey `json:"by"`
	Entries []Entry `json:"entries"`
	all     []Entry
}

// Rank orders entries by key, highest first; ties break on username.
// Levels are recomputed from points and ranks assigned 1..n.
func Rank(entries []Entry, by SortKey) Board {
	all := append([]Entry(nil), entries...)
	value := func(e Entry) int {
		if by == ByWins {
			return e.GamesWon
		}
		return e.TotalPoints
	}
	sort.SliceStable(all, func(i, j int) bool {
		vi, vj := value(all[i]), value(all[j])
		if vi != vj {
			return vi > vj
		}
		return strings.ToLower(all[i].Username) < strings.ToLower(all[j].Username)
	})
	for i := range all {
		all[i].Rank = i + 1
		all[i].Level = puzzle.LevelFor(all[i].TotalPoints).Level
	}
	return Board{By: by, Entries: all, all: all}
}

// Top truncates the board to the first n entries. The full ranking is kept
// for RankOf.
func (b Board) Top(n int) Board {
	if n > 0 && len(b.Entries) > n {
		b.Entries = b.Entries[:n]
	}
	return b
}

// RankOf returns the 1-based rank of userID over the full ranking, or 0.
func (b Board) RankOf(userID string) int {
	for _, e := range b.all {
		if e.UserID == userID {
			return e.Rank
		}
	}
	return 0
}
