// Package entropy provides the single seedable random stream for a
// simulation run. Every stochastic draw in the core (strategy placeholders,
// natural events, worldgen variance) goes through one Source so that a run
// is fully reproducible from its seed.
package entropy

import "math/rand"

// Source wraps a seeded PRNG. Not safe for concurrent use; the turn loop is
// single-threaded and the read-only scoring phase draws nothing from it.
type Source struct {
	rng  *rand.Rand
	seed int64
}

// NewSource creates a Source seeded with the given value.
func NewSource(seed int64) *Source {
	return &Source{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Range returns a uniform float64 in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Intn returns a uniform int in [0, n). n must be > 0.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Pick returns a uniformly chosen element of items. Panics on empty input,
// matching rand.Intn semantics.
func Pick[T any](s *Source, items []T) T {
	return items[s.Intn(len(items))]
}

// PickPair returns two distinct indices in [0, n). n must be >= 2.
func (s *Source) PickPair(n int) (int, int) {
	i := s.Intn(n)
	j := s.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
