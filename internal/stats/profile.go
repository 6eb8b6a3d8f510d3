package stats

import "github.com/robalobadob/cosmicword/internal/puzzle"

// Achievement is a milestone shown on the profile page.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Progress    int    `json:"progress"`
	Total       int    `json:"total"`
}

// Profile is the derived view of a Record.
type Profile struct {
	Record       Record                    `json:"stats"`
	WinRate      int                       `json:"winRate"`
	Level        puzzle.LevelInfo          `json:"level"`
	Achievements []Achievement             `json:"achievements"`
	TierWinRates map[puzzle.Difficulty]int `json:"tierWinRates"`
}

// BuildProfile derives win rates, level and achievements from rec.
func BuildProfile(rec Record) Profile {
	level := puzzle.LevelFor(rec.TotalPoints)

	tiers := make(map[puzzle.Difficulty]int, 4)
	for _, d := range puzzle.Difficulties() {
		ts := rec.Tier(d)
		if ts.Played > 0 {
			tiers[d] = int(float64(ts.Won)/float64(ts.Played)*100 + 0.5)
		} else {
			tiers[d] = 0
		}
	}

	return Profile{
		Record:       rec,
		WinRate:      rec.WinRate(),
		Level:        level,
		Achievements: achievements(rec, level),
		TierWinRates: tiers,
	}
}

func achievements(rec Record, level puzzle.LevelInfo) []Achievement {
	legendaryWins := rec.Tier(puzzle.Legendary).Won
	return []Achievement{
		milestone("first_win", "First Contact", "Win your first game", rec.GamesWon, 1),
		milestone("win_streak", "Cosmic Streak", "Win 5 games in a row", rec.MaxStreak, 5),
		milestone("legendary_win", "Legendary Decoder", "Win a game on Legendary difficulty", legendaryWins, 1),
		milestone("perfect_game", "Perfect Transmission", "Win a game in just one attempt", rec.PerfectGames, 1),
		milestone("master", "Cosmic Master", "Reach level 5", level.Level, puzzle.MaxLevel),
	}
}

func milestone(id, title, desc string, have, total int) Achievement {
	return Achievement{
		ID:          id,
		Title:       title,
		Description: desc,
		Unlocked:    have >= total,
		Progress:    min(have, total),
		Total:       total,
	}
}
