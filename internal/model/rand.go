package model

// Rand is the random source every stochastic engine draws from.
//
// *rand.Rand from math/rand/v2 satisfies it. Tests substitute a scripted
// source (see internal/testutil) to force specific draws.
type Rand interface {
	Float64() float64
	IntN(n int) int
	NormFloat64() float64
}

// Roll reports whether a single draw falls under probability p.
// p <= 0 never draws and returns false; p >= 1 never draws and returns true.
func Roll(r Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Uniform returns a draw in [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
