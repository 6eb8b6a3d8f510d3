// internal/puzzle/evaluate.go
//
// Guess evaluation against the target word.
//
// Classification is per position and independent:
//   - Correct when guess[i] == target[i].
//   - Present when the letter occurs anywhere in the target.
//   - Absent otherwise.
//
// Target letters are not consumed, so a guess with two E's against a target
// with one E may show both as Present. Callers validate length and alphabet
// before calling in.

package puzzle

import "strings"

// Evaluate classifies every letter of guess against target.
// guess and target must be the same length and in the same case.
func Evaluate(guess, target string) []LetterStatus {
	g := []rune(guess)
	t := []rune(target)
	out := make([]LetterStatus, len(g))
	for i, r := range g {
		switch {
		case i < len(t) && r == t[i]:
			out[i] = Correct
		case strings.ContainsRune(target, r):
			out[i] = Present
		default:
			out[i] = Absent
		}
	}
	return out
}

// Solved reports whether every status is Correct.
func Solved(statuses []LetterStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != Correct {
			return false
		}
	}
	return true
}

// KeyboardStatuses folds every guess into one status per letter seen so far.
// A letter's status only ever moves up: absent -> present -> correct.
func KeyboardStatuses(guesses []string, target string) map[rune]LetterStatus {
	out := make(map[rune]LetterStatus)
	for _, guess := range guesses {
		statuses := Evaluate(guess, target)
		for i, r := range []rune(guess) {
			if statuses[i].rank() > out[r].rank() {
				out[r] = statuses[i]
			}
		}
	}
	return out
}
