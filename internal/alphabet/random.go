package alphabet

import "math/rand/v2"

// RandomSequence returns n bases drawn uniformly from Bases using r.
//
// The caller owns the random source, so a seeded generator always yields the
// same sequence:
//
//	r := rand.New(rand.NewPCG(42, 42))
//	seq := alphabet.RandomSequence(r, 100)
func RandomSequence(r *rand.Rand, n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = Bases[r.IntN(Size)]
	}
	return string(buf)
}

// NewSource returns a generator seeded from seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
