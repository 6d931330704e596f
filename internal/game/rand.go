package game

import (
	"math/rand/v2"

	"github.com/valyala/fastrand"
)

// Rand is the randomness the engine needs: a uniform int in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// fastRand is the default source, backed by valyala/fastrand.
type fastRand struct{}

func (fastRand) IntN(n int) int {
	if n <= 0 {
		panic("game: IntN called with n <= 0")
	}
	return int(fastrand.Uint32n(uint32(n)))
}

// NewSeededRand returns a deterministic source for tests and daily rounds.
func NewSeededRand(seed1, seed2 uint64) Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}
