package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
)

// cryptoSource draws faces from crypto/rand. The sampler asks for the same
// bound on every draw of a run, so the last bound is kept as a big.Int.
// Not safe for concurrent use.
type cryptoSource struct {
	n     int
	bound *big.Int
}

// NewCryptoSource returns the unseeded Source used when a run has no seed.
// Runs drawn from it are not reproducible.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a uniformly distributed face index in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if c.n != n {
		c.n, c.bound = n, big.NewInt(int64(n))
	}
	val, err := rand.Int(rand.Reader, c.bound)
	if err != nil {
		panic(fmt.Sprintf("dice: crypto/rand failure: %v", err))
	}
	return int(val.Int64())
}

// seededSource implements Source with a deterministic PCG generator.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce the same sequence.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}
