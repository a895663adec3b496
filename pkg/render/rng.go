package render

import (
	"crypto/rand"
	"encoding/binary"
)

// rngModulus and rngMultiplier are the minstd (Lehmer/Park-Miller)
// parameters: x_{n+1} = x_n * 48271 mod (2^31 - 1).
const (
	rngModulus    = 2147483647
	rngMultiplier = 48271
)

// RNG is a single-stream uniform [0,1) generator. It is never shared
// between goroutines; each worker owns one, lazily seeded.
type RNG struct {
	state uint64
}

// NewRNG seeds an RNG deterministically. A zero or modulus-aligned seed
// is nudged to 1 since the Lehmer recurrence has a fixed point at 0.
func NewRNG(seed int64) *RNG {
	s := uint64(seed) % rngModulus
	if s == 0 {
		s = 1
	}
	return &RNG{state: s}
}

// NewEntropyRNG seeds an RNG from OS entropy, for nondeterministic mode.
func NewEntropyRNG() *RNG {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return NewRNG(1)
	}
	return NewRNG(int64(binary.LittleEndian.Uint64(buf[:])))
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	r.state = (r.state * rngMultiplier) % rngModulus
	return float64(r.state) / rngModulus
}
