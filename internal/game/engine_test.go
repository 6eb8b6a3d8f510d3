package game

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cosmicword/internal/puzzle"
	"github.com/robalobadob/cosmicword/internal/words"
)

func testLists(t *testing.T) *words.Lists {
	t.Helper()
	l, err := words.FromSlices(map[puzzle.Difficulty][]string{
		puzzle.Easy:      {"COMET", "ORBIT", "LUNAR"},
		puzzle.Medium:    {"NEBULA", "GALAXY"},
		puzzle.Hard:      {"ECLIPSE", "GRAVITY"},
		puzzle.Legendary: {"ASTEROID", "UNIVERSE"},
	})
	require.NoError(t, err)
	return l
}

func newRng() *rand.Rand { return rand.New(rand.NewPCG(11, 12)) }

func TestNewDrawsFromTier(t *testing.T) {
	l := testLists(t)
	for _, d := range puzzle.Difficulties() {
		s := New(l, d, newRng())
		assert.Contains(t, l.Words(d), s.Target)
		assert.Len(t, s.Target, puzzle.WordLength(d))
		assert.Equal(t, puzzle.Playing, s.Status)
		assert.NotEmpty(t, s.ID)
	}
	s := New(l, puzzle.Difficulty("warp"), newRng())
	assert.Equal(t, puzzle.Easy, s.Difficulty)
}

func TestGuessWin(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(testLists(t), puzzle.Easy, newRng(), WithTarget("comet"), WithClock(func() time.Time { return fixed }))

	res, err := s.Guess("orbit")
	require.NoError(t, err)
	assert.Equal(t, puzzle.Playing, res.Status)
	assert.Equal(t, 1, res.Attempts)

	res, err = s.Guess(" Comet ")
	require.NoError(t, err)
	assert.Equal(t, puzzle.Won, res.Status)
	assert.Equal(t, 40, res.Score)
	assert.True(t, puzzle.Solved(res.Statuses))
	assert.Equal(t, fixed, s.FinishedAt)

	_, err = s.Guess("lunar")
	assert.ErrorIs(t, err, ErrFinished)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.True(t, out.Won)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, 40, out.Score)
}

func TestGuessLoss(t *testing.T) {
	s := New(testLists(t), puzzle.Hard, newRng(), WithTarget("ECLIPSE"))
	for i := 0; i < puzzle.MaxAttempts(puzzle.Hard)-1; i++ {
		res, err := s.Guess("GRAVITY")
		require.NoError(t, err)
		assert.Equal(t, puzzle.Playing, res.Status)
	}
	res, err := s.Guess("GRAVITY")
	require.NoError(t, err)
	assert.Equal(t, puzzle.Lost, res.Status)
	assert.Zero(t, res.Score)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.False(t, out.Won)
	assert.Equal(t, 5, out.Attempts)
}

func TestGuessValidation(t *testing.T) {
	s := New(testLists(t), puzzle.Easy, newRng(), WithTarget("COMET"))

	_, err := s.Guess("COMETS")
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = s.Guess("C0MET")
	assert.ErrorIs(t, err, ErrNotAlphabetic)
	assert.Empty(t, s.Guesses)

	_, ok := s.Outcome()
	assert.False(t, ok)
}

func TestHints(t *testing.T) {
	s := New(testLists(t), puzzle.Easy, newRng(), WithTarget("COMET"))
	_, err := s.Guess("COMBS")
	require.NoError(t, err)

	for i := 0; i < MaxHints; i++ {
		h, err := s.Hint(newRng())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, h.Position, 3)
		assert.Equal(t, string("COMET"[h.Position]), h.Letter)
	}
	assert.Equal(t, 0, s.HintsLeft())

	_, err = s.Hint(newRng())
	assert.ErrorIs(t, err, ErrHintsExhausted)

	res, err := s.Guess("COMET")
	require.NoError(t, err)
	// 50 - 10 (second attempt) - 30 (three hints)
	assert.Equal(t, puzzle.ScoreFloor, res.Score)
}

func TestHintNoneAvailableDoesNotConsume(t *testing.T) {
	s := New(testLists(t), puzzle.Legendary, newRng(), WithTarget("ASTEROID"))
	// solve every position across two guesses without an exact match
	_, err := s.Guess("ASTERZZZ")
	require.NoError(t, err)
	_, err = s.Guess("ZZZZZOID")
	require.NoError(t, err)

	_, err = s.Hint(newRng())
	assert.ErrorIs(t, err, ErrNoHintAvailable)
	assert.Equal(t, MaxHints, s.HintsLeft())

	// no penalty carried into the score either
	res, err := s.Guess("ASTEROID")
	require.NoError(t, err)
	assert.Equal(t, puzzle.CalculateScore(3, 0, puzzle.Legendary), res.Score)
}

func TestOutcomeCarriesDailyFlag(t *testing.T) {
	l := testLists(t)
	s := New(l, puzzle.Easy, newRng(), WithTarget("COMET"), WithDaily(), WithOwner("u1"))
	_, ok := s.Outcome()
	assert.False(t, ok)

	_, err := s.Guess("COMET")
	require.NoError(t, err)
	out, ok := s.Outcome()
	require.True(t, ok)
	assert.True(t, out.Daily)
	assert.True(t, out.Won)
	assert.Equal(t, "u1", s.Owner)

	s.Reset(newRng())
	_, err = s.Guess(s.Target)
	require.NoError(t, err)
	out, _ = s.Outcome()
	assert.False(t, out.Daily)
}

func TestHintAfterFinish(t *testing.T) {
	s := New(testLists(t), puzzle.Easy, newRng(), WithTarget("COMET"))
	_, _ = s.Guess("COMET")
	_, err := s.Hint(newRng())
	assert.ErrorIs(t, err, ErrFinished)
}

func TestResetAndChangeDifficulty(t *testing.T) {
	l := testLists(t)
	s := New(l, puzzle.Easy, newRng(), WithTarget("COMET"), WithDaily())
	_, _ = s.Guess("ORBIT")

	err := s.ChangeDifficulty(puzzle.Legendary, newRng())
	assert.ErrorIs(t, err, ErrMissionInProgress)
	assert.Equal(t, puzzle.Easy, s.Difficulty)

	s.Reset(newRng())
	assert.Empty(t, s.Guesses)
	assert.Equal(t, puzzle.Playing, s.Status)
	assert.False(t, s.Daily)
	assert.Contains(t, l.Words(puzzle.Easy), s.Target)

	require.NoError(t, s.ChangeDifficulty(puzzle.Legendary, newRng()))
	assert.Equal(t, puzzle.Legendary, s.Difficulty)
	assert.Len(t, s.Target, 8)
}

func TestChangeDifficultyAfterFinish(t *testing.T) {
	s := New(testLists(t), puzzle.Easy, newRng(), WithTarget("COMET"))
	_, _ = s.Guess("COMET")
	require.NoError(t, s.ChangeDifficulty(puzzle.Medium, newRng()))
	assert.Equal(t, puzzle.Playing, s.Status)
	assert.Zero(t, s.Score)
}

func TestViewHidesTargetUntilFinished(t *testing.T) {
	s := New(testLists(t), puzzle.Medium, newRng(), WithTarget("NEBULA"))
	_, _ = s.Guess("GALAXY")

	v := s.View()
	assert.Empty(t, v.Target)
	assert.Equal(t, 6, v.WordLength)
	assert.Equal(t, 6, v.MaxAttempts)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "GALAXY", v.Rows[0].Guess)
	assert.Equal(t, puzzle.Present, v.Keyboard["A"])
	assert.Equal(t, puzzle.Absent, v.Keyboard["G"])
	assert.Equal(t, MaxHints, v.HintsLeft)

	_, _ = s.Guess("NEBULA")
	assert.Equal(t, "NEBULA", s.View().Target)
}
