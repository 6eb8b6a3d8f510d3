package puzzle

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"easy":      Easy,
		"Medium":    Medium,
		" HARD ":    Hard,
		"legendary": Legendary,
		"":          Easy,
		"insane":    Easy,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseDifficulty(in), "input %q", in)
	}
}

func TestDifficultyTable(t *testing.T) {
	tests := []struct {
		d        Difficulty
		length   int
		attempts int
		mult     float64
	}{
		{Easy, 5, 6, 1},
		{Medium, 6, 6, 1.5},
		{Hard, 7, 5, 2},
		{Legendary, 8, 5, 3},
		{Difficulty("bogus"), 5, 6, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.d), func(t *testing.T) {
			assert.Equal(t, tt.length, WordLength(tt.d))
			assert.Equal(t, tt.attempts, MaxAttempts(tt.d))
			assert.Equal(t, tt.mult, Multiplier(tt.d))
		})
	}
	assert.False(t, Difficulty("bogus").Valid())
	assert.Len(t, Difficulties(), 4)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		target string
		want   []LetterStatus
	}{
		{"exact", "COMET", "COMET", []LetterStatus{Correct, Correct, Correct, Correct, Correct}},
		{"mixed", "METRO", "COMET", []LetterStatus{Present, Present, Present, Absent, Present}},
		{"nothing", "BLUSH", "COMET", []LetterStatus{Absent, Absent, Absent, Absent, Absent}},
		// duplicates are not consumed: both E's report present against one E
		{"duplicates", "EERIE", "COMET", []LetterStatus{Present, Present, Absent, Absent, Present}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.guess, tt.target))
		})
	}
}

func TestEvaluateSelfIsAllCorrect(t *testing.T) {
	for _, w := range []string{"SPACE", "NEBULA", "ECLIPSE", "ASTEROID"} {
		got := Evaluate(w, w)
		assert.True(t, Solved(got), w)
	}
}

func TestEvaluateAbsentLetterEverywhere(t *testing.T) {
	got := Evaluate("ZZZZZ", "COMET")
	for _, s := range got {
		assert.Equal(t, Absent, s)
	}
	assert.False(t, Solved(nil))
}

func TestKeyboardStatusesNeverDowngrade(t *testing.T) {
	target := "COMET"
	// C correct first, later seen in a non-matching position
	guesses := []string{"CRANE", "TACOS", "ZZZZZ"}
	got := KeyboardStatuses(guesses, target)

	assert.Equal(t, Correct, got['C'])
	assert.Equal(t, Present, got['E'])
	assert.Equal(t, Present, got['T'])
	assert.Equal(t, Present, got['O'])
	assert.Equal(t, Absent, got['R'])
	assert.Equal(t, Absent, got['Z'])

	// present first, then correct: upgrade
	got = KeyboardStatuses([]string{"TOMES", "COMET"}, target)
	assert.Equal(t, Correct, got['T'])
	assert.Equal(t, Correct, got['E'])
}

func TestCalculateScore(t *testing.T) {
	assert.Equal(t, 50, CalculateScore(1, 0, Easy))
	assert.Equal(t, 10, CalculateScore(6, 0, Easy))
	assert.Equal(t, 150, CalculateScore(1, 0, Legendary))
	assert.Equal(t, 60, CalculateScore(2, 0, Medium))
	assert.Equal(t, 60, CalculateScore(2, 1, Hard))
	assert.Equal(t, 10, CalculateScore(1, 10, Legendary))
}

func TestCalculateScoreMonotonic(t *testing.T) {
	for _, d := range Difficulties() {
		for hints := 0; hints <= 3; hints++ {
			prev := CalculateScore(1, hints, d)
			for attempts := 2; attempts <= 8; attempts++ {
				cur := CalculateScore(attempts, hints, d)
				assert.LessOrEqual(t, cur, prev, "%s attempts=%d hints=%d", d, attempts, hints)
				assert.GreaterOrEqual(t, cur, ScoreFloor)
				prev = cur
			}
		}
		for attempts := 1; attempts <= 6; attempts++ {
			prev := CalculateScore(attempts, 0, d)
			for hints := 1; hints <= 5; hints++ {
				cur := CalculateScore(attempts, hints, d)
				assert.LessOrEqual(t, cur, prev)
				prev = cur
			}
		}
	}
}

func TestLevelFor(t *testing.T) {
	info := LevelFor(0)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0.0, info.Progress)
	assert.Equal(t, 2, info.NextLevel)
	assert.Equal(t, 500, info.PointsForNextLevel)
	assert.Equal(t, "Space Cadet", info.Title)

	info = LevelFor(750)
	assert.Equal(t, 2, info.Level)
	assert.Greater(t, info.Progress, 0.0)
	assert.Less(t, info.Progress, 100.0)
	assert.InDelta(t, 50.0, info.Progress, 0.001)

	info = LevelFor(5000)
	assert.Equal(t, 5, info.Level)
	assert.Equal(t, 100.0, info.Progress)
	assert.Equal(t, 5, info.NextLevel)
	assert.Equal(t, "Cosmic Oracle", info.Title)

	info = LevelFor(1999)
	assert.Equal(t, 3, info.Level)

	info = LevelFor(-20)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0.0, info.Progress)
}

func TestLevelsCopy(t *testing.T) {
	l := Levels()
	require.Len(t, l, MaxLevel)
	l[0].Title = "changed"
	assert.Equal(t, "Space Cadet", Levels()[0].Title)
}

func TestSelectHintSkipsSolvedPositions(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	target := "COMET"
	guesses := []string{"CORAL", "COMBS"} // C, O, M solved

	for i := 0; i < 50; i++ {
		pos, ok := SelectHint(guesses, target, rng)
		require.True(t, ok)
		assert.Contains(t, []int{3, 4}, pos)
	}
}

func TestSelectHintSingleOpenPosition(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	pos, ok := SelectHint([]string{"COMEX"}, "COMET", rng)
	assert.True(t, ok)
	assert.Equal(t, 4, pos)
}

func TestSelectHintAllSolved(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	pos, ok := SelectHint([]string{"COMET"}, "COMET", rng)
	assert.False(t, ok)
	assert.Equal(t, NoHint, pos)
}

func TestStatusFinished(t *testing.T) {
	assert.False(t, Playing.Finished())
	assert.True(t, Won.Finished())
	assert.True(t, Lost.Finished())
}
