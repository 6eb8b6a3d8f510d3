package puzzle

// NoHint is the position returned by SelectHint when nothing is left to reveal.
const NoHint = -1

// SelectHint picks a random position of target that no guess has matched yet.
// ok is false, with pos == NoHint, once every position has been solved.
//
// The draw is over the unsolved positions directly, so it needs no retry loop
// and terminates however few positions remain.
func SelectHint(guesses []string, target string, rng Rand) (pos int, ok bool) {
	t := []rune(target)
	solved := make([]bool, len(t))
	for _, guess := range guesses {
		for i, r := range []rune(guess) {
			if i < len(t) && r == t[i] {
				solved[i] = true
			}
		}
	}

	open := make([]int, 0, len(t))
	for i, done := range solved {
		if !done {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return NoHint, false
	}
	return open[rng.IntN(len(open))], true
}
