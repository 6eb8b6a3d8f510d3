package puzzle

import "math"

const (
	// ScoreFloor is the minimum score for a won puzzle.
	ScoreFloor = 10

	baseScore      = 50
	attemptPenalty = 10
	hintPenalty    = 10
)

// CalculateScore returns the points earned for winning a puzzle on the given
// attempt with the given number of hints used.
//
//	round((50 - (attempts-1)*10 - hints*10) * multiplier), floored at 10
//
// Intermediate values go negative for long games; the floor absorbs that.
func CalculateScore(attempts, hints int, d Difficulty) int {
	raw := float64(baseScore-(attempts-1)*attemptPenalty-hints*hintPenalty) * Multiplier(d)
	// half-up rounding
	score := int(math.Floor(raw + 0.5))
	if score < ScoreFloor {
		return ScoreFloor
	}
	return score
}
