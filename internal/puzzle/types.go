package puzzle

// LetterStatus is the per-letter classification of a guess.
type LetterStatus string

const (
	Correct LetterStatus = "correct" // right letter, right position
	Present LetterStatus = "present" // letter occurs elsewhere in the target
	Absent  LetterStatus = "absent"  // letter does not occur in the target
)

// rank orders statuses for the keyboard fold: absent < present < correct.
func (s LetterStatus) rank() int {
	switch s {
	case Correct:
		return 3
	case Present:
		return 2
	case Absent:
		return 1
	}
	return 0
}

// Status is the coarse state of a single puzzle.
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
	Lost    Status = "lost"
)

// Finished reports whether s is terminal.
func (s Status) Finished() bool { return s == Won || s == Lost }

// Rand is the random source used for word and hint selection.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}
