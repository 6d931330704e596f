// internal/daily/daily.go
//
// Deterministic randomness for the daily round: every player who starts a
// daily round on the same UTC date draws the same word order and scrambles.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/scramble/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives two PCG seed words from HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}

// NewRand returns the day's deterministic source for the round engine.
func NewRand(date time.Time, salt string) game.Rand {
	return game.NewSeededRand(Seed(date, salt))
}
