package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Random is the source of every draw the engine makes. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

// NewRandom returns a deterministic source for the given seed.
func NewRandom(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible games.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// uniform draws from [lo, hi).
func uniform(rng Random, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// between draws an integer from the inclusive range.
func between(rng Random, r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

func chance(rng Random, p float64) bool {
	return rng.Float64() < p
}
