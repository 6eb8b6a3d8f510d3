// internal/daily/daily.go
//
// Deterministic daily puzzle schedule.
//
// Every tier gets one word per UTC day. The index is HMAC-SHA256(salt, tier|date)
// so the schedule cannot be guessed without the salt, yet every server sharing
// the salt agrees on it.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/cosmicword/internal/puzzle"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	return index(DateKey(date), salt, n)
}

// Word picks the daily word for tier d from list.
func Word(list []string, d puzzle.Difficulty, date time.Time, salt string) string {
	if len(list) == 0 {
		return ""
	}
	return list[index(string(d)+"|"+DateKey(date), salt, len(list))]
}

func index(key, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(key))
	sum := h.Sum(nil)
	// first 8 bytes as uint64
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
