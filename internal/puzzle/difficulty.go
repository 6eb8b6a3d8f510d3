// internal/puzzle/difficulty.go
//
// Difficulty tiers and their fixed configuration.
//
//   tier       length  attempts  multiplier
//   easy         5        6         1
//   medium       6        6         1.5
//   hard         7        5         2
//   legendary    8        5         3
//
// Anything unrecognised resolves to the easy row.

package puzzle

import "strings"

// Difficulty is a configuration tier controlling word length, attempt budget
// and score multiplier.
type Difficulty string

const (
	Easy      Difficulty = "easy"
	Medium    Difficulty = "medium"
	Hard      Difficulty = "hard"
	Legendary Difficulty = "legendary"
)

type tier struct {
	length     int
	attempts   int
	multiplier float64
}

var tiers = map[Difficulty]tier{
	Easy:      {length: 5, attempts: 6, multiplier: 1},
	Medium:    {length: 6, attempts: 6, multiplier: 1.5},
	Hard:      {length: 7, attempts: 5, multiplier: 2},
	Legendary: {length: 8, attempts: 5, multiplier: 3},
}

// Difficulties returns every tier, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard, Legendary}
}

// ParseDifficulty maps user input to a tier. Unknown input falls back to Easy.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tiers[d]; ok {
		return d
	}
	return Easy
}

// Valid reports whether d is one of the four known tiers.
func (d Difficulty) Valid() bool {
	_, ok := tiers[d]
	return ok
}

func (d Difficulty) config() tier {
	if t, ok := tiers[d]; ok {
		return t
	}
	return tiers[Easy]
}

// WordLength is the number of letters in a target word for d.
func WordLength(d Difficulty) int { return d.config().length }

// MaxAttempts is the guess budget for d.
func MaxAttempts(d Difficulty) int { return d.config().attempts }

// Multiplier is the scoring multiplier for d.
func Multiplier(d Difficulty) float64 { return d.config().multiplier }
