// Package randsrc is the engine's uniform-float random source. It stands in
// for an accelerator-resident RNG: something that can refill a float32
// vector on demand. The generator is lifecycle-scoped to one engine, not a
// package global, so New/NewSeeded return an owned value rather than
// reaching for math/rand's package-level functions.
package randsrc

import "math/rand/v2"

// Source produces uniform float32s in [0, 1) on demand.
type Source struct {
	rng *rand.Rand
}

// New seeds a Source from two fresh random 64-bit words.
func New() *Source {
	return &Source{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewFromTime seeds a Source from a time-derived value, the engine's
// default init-time seeding: not reproducible across runs, but cheap and
// dependency-free.
func NewFromTime(nanos int64) *Source {
	u := uint64(nanos)
	return &Source{rng: rand.New(rand.NewPCG(u, u^0x9e3779b97f4a7c15))}
}

// NewSeeded seeds a Source deterministically. Exposed only so tests (and
// callers who explicitly opt in) can get reproducible runs; the engine
// itself never calls this on the hot path, so ordinary runs stay
// non-reproducible by default.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Fill overwrites buf with uniform float32s in [0, 1).
func (s *Source) Fill(buf []float32) {
	for i := range buf {
		buf[i] = s.rng.Float32()
	}
}

// Float64 draws a single uniform float64 in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// IntN draws a uniform integer in [0, n), used where migration needs to
// pick a destination rank.
func (s *Source) IntN(n int) int {
	return s.rng.IntN(n)
}
