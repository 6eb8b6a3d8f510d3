package puzzle

// Level is one rung of the player ladder.
type Level struct {
	Level     int    `json:"level"`
	Title     string `json:"title"`
	Threshold int    `json:"threshold"`
}

var ladder = []Level{
	{Level: 1, Title: "Space Cadet", Threshold: 0},
	{Level: 2, Title: "Nebula Explorer", Threshold: 500},
	{Level: 3, Title: "Star Navigator", Threshold: 1000},
	{Level: 4, Title: "Galactic Sage", Threshold: 2000},
	{Level: 5, Title: "Cosmic Oracle", Threshold: 5000},
}

// MaxLevel is the top of the ladder.
const MaxLevel = 5

// Levels returns a copy of the ladder, lowest first.
func Levels() []Level {
	return append([]Level(nil), ladder...)
}

// LevelInfo describes where a points total sits on the ladder.
type LevelInfo struct {
	Level              int     `json:"currentLevel"`
	Title              string  `json:"title"`
	NextLevel          int     `json:"nextLevel"`
	PointsForNextLevel int     `json:"pointsForNextLevel"`
	Progress           float64 `json:"progress"` // 0..100 towards NextLevel
}

// LevelFor finds the highest level whose threshold does not exceed
// totalPoints and the progress towards the next one. At the top level
// PointsForNextLevel is the top threshold and Progress is 100.
func LevelFor(totalPoints int) LevelInfo {
	cur := 0
	for i := len(ladder) - 1; i >= 0; i-- {
		if totalPoints >= ladder[i].Threshold {
			cur = i
			break
		}
	}
	if cur == len(ladder)-1 {
		top := ladder[cur]
		return LevelInfo{
			Level:              top.Level,
			Title:              top.Title,
			NextLevel:          top.Level,
			PointsForNextLevel: top.Threshold,
			Progress:           100,
		}
	}

	lo, hi := ladder[cur], ladder[cur+1]
	progress := float64(totalPoints-lo.Threshold) / float64(hi.Threshold-lo.Threshold) * 100
	switch {
	case progress < 0:
		progress = 0
	case progress > 100:
		progress = 100
	}
	return LevelInfo{
		Level:              lo.Level,
		Title:              lo.Title,
		NextLevel:          hi.Level,
		PointsForNextLevel: hi.Threshold,
		Progress:           progress,
	}
}
