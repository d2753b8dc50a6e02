package game

import "math/rand"

// Rand is the random source used for bounce jitter and opponent errors.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func randomFloat(r Rand) float64 {
	if r != nil {
		return r.Float64()
	}
	return rand.Float64()
}

// uniform returns a value in [-spread, spread).
func uniform(r Rand, spread float64) float64 {
	return (randomFloat(r)*2 - 1) * spread
}

func randomSign(r Rand) float64 {
	if randomFloat(r) > 0.5 {
		return 1
	}
	return -1
}

func randomIndex(r Rand, n int) int {
	i := int(randomFloat(r) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
