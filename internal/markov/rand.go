package markov

import "math/rand"

// Rand is the source of randomness for order selection and generation.
// It is an interface so tests can substitute a scripted sequence.
// *math/rand.Rand satisfies it directly.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) Intn(n int) int   { return rand.Intn(n) }

// DefaultRand returns a Rand backed by math/rand's global source.
func DefaultRand() Rand { return globalRand{} }
