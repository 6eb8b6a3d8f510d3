// internal/words/words.go
//
// Word list management for the puzzle tiers.
//
// Responsibilities:
//   - Load one list per difficulty from embedded defaults or a directory on disk.
//   - Normalise entries to uppercase and drop anything with the wrong length.
//   - Supply lookups (Words) and uniform random draws (Random).
//
// Word Lists:
//   - One file per tier named <tier>.txt (easy.txt, medium.txt, ...).
//   - One word per line; blank lines and lines starting with '#' are ignored.
//
// Initialization behavior (Init):
//   1. If dir is non-empty, <dir>/<tier>.txt is read for every tier.
//   2. Otherwise the embedded assets/words/*.txt files are used.
//
// Lists are immutable once loaded.

package words

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cosmicword/assets"
	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// ErrEmptyList is returned when a tier has no usable words after loading.
var ErrEmptyList = errors.New("words: list is empty")

// Lists holds the word list of every tier.
type Lists struct {
	byTier map[puzzle.Difficulty][]string
}

var (
	initOnce   sync.Once
	defaults   *Lists
	initialErr error
)

// Init loads the package-level lists exactly once. dir may be empty to use the
// embedded lists. Calls after the first return the first result.
func Init(dir string) error {
	initOnce.Do(func() {
		defaults, initialErr = Load(dir)
		if initialErr != nil {
			return
		}
		for _, d := range puzzle.Difficulties() {
			log.Debug().Str("difficulty", string(d)).Int("words", len(defaults.byTier[d])).Msg("word list loaded")
		}
	})
	return initialErr
}

// Load reads every tier from dir, or from the embedded assets when dir is empty.
func Load(dir string) (*Lists, error) {
	var fsys fs.FS
	prefix := "words/"
	if dir != "" {
		fsys = os.DirFS(dir)
		prefix = ""
	} else {
		fsys = assets.Words
	}

	l := &Lists{byTier: make(map[puzzle.Difficulty][]string, 4)}
	for _, d := range puzzle.Difficulties() {
		lines, err := assets.ReadLines(fsys, prefix+string(d)+".txt")
		if err != nil {
			return nil, fmt.Errorf("words: read %s list: %w", d, err)
		}
		list, invalid, dups := normalize(lines, puzzle.WordLength(d))
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyList, d)
		}
		if invalid > 0 {
			log.Warn().Str("difficulty", string(d)).Int("dropped", invalid).Msg("skipped words with wrong length or characters")
		}
		if dups > 0 {
			log.Debug().Str("difficulty", string(d)).Int("duplicates", dups).Msg("skipped duplicate words")
		}
		l.byTier[d] = list
	}
	return l, nil
}

// FromSlices builds Lists directly; entries are normalised like file input.
func FromSlices(m map[puzzle.Difficulty][]string) (*Lists, error) {
	l := &Lists{byTier: make(map[puzzle.Difficulty][]string, 4)}
	for _, d := range puzzle.Difficulties() {
		list, _, _ := normalize(m[d], puzzle.WordLength(d))
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyList, d)
		}
		l.byTier[d] = list
	}
	return l, nil
}

// normalize uppercases entries and keeps alphabetic words of exactly n
// letters, first occurrence only. It also counts what it dropped.
func normalize(lines []string, n int) (out []string, invalid, dups int) {
	out = make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		w := strings.ToUpper(strings.TrimSpace(line))
		if utf8.RuneCountInString(w) != n || !IsAlpha(w) {
			invalid++
			continue
		}
		if _, dup := seen[w]; dup {
			dups++
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, invalid, dups
}

// IsAlpha reports whether s is non-empty and all ASCII letters.
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Words returns the list for d; unknown tiers get the easy list.
// The returned slice must not be modified.
func (l *Lists) Words(d puzzle.Difficulty) []string {
	if !d.Valid() {
		d = puzzle.Easy
	}
	return l.byTier[d]
}

// Random draws a word for d uniformly using rng.
func (l *Lists) Random(d puzzle.Difficulty, rng puzzle.Rand) string {
	list := l.Words(d)
	return list[rng.IntN(len(list))]
}

// Stats returns the number of words per tier.
func (l *Lists) Stats() map[puzzle.Difficulty]int {
	out := make(map[puzzle.Difficulty]int, len(l.byTier))
	for d, list := range l.byTier {
		out[d] = len(list)
	}
	return out
}

// Default returns the package-level lists, loading the embedded ones if Init
// was never called.
func Default() *Lists {
	if err := Init(""); err != nil {
		// embedded lists are part of the binary; failing here is a build problem
		panic(err)
	}
	return defaults
}

// Words returns the default list for d.
func Words(d puzzle.Difficulty) []string { return Default().Words(d) }

// Random draws from the default list for d.
func Random(d puzzle.Difficulty, rng puzzle.Rand) string { return Default().Random(d, rng) }
