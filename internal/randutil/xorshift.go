package randutil

import "math/bits"

// XorShift64 is Marsaglia's 64-bit xorshift generator (shifts 13, 7, 17).
// It is fast and deterministic for a given seed, and not suitable for
// anything security related. A generator must not be shared between
// goroutines; give each worker its own.
type XorShift64 struct {
	state uint64
}

// NewXorShift64 seeds a generator. The seed is scrambled first so that small
// or similar seeds still produce unrelated streams.
func NewXorShift64(seed uint64) *XorShift64 {
	r := &XorShift64{}
	r.Seed(seed)
	return r
}

// Seed resets the generator without allocating.
func (r *XorShift64) Seed(seed uint64) {
	s := mix(seed)
	if s == 0 {
		// Zero is a fixed point of xorshift.
		s = goldenRatio64
	}
	r.state = s
}

// State returns the current internal state.
func (r *XorShift64) State() uint64 {
	return r.state
}

// Next advances the state and returns it.
func (r *XorShift64) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Uint64 makes XorShift64 usable as a math/rand/v2 Source.
func (r *XorShift64) Uint64() uint64 {
	return r.Next()
}

// Uint64n returns a uniform value in [0, n) using Lemire's multiply-shift
// reduction with rejection. It panics if n is zero.
func (r *XorShift64) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("randutil: Uint64n called with n == 0")
	}
	hi, lo := bits.Mul64(r.Next(), n)
	if lo < n {
		thresh := -n % n
		for lo < thresh {
			hi, lo = bits.Mul64(r.Next(), n)
		}
	}
	return hi
}

// IntN returns a uniform int in [0, n). It panics if n <= 0.
func (r *XorShift64) IntN(n int) int {
	if n <= 0 {
		panic("randutil: IntN called with n <= 0")
	}
	return int(r.Uint64n(uint64(n)))
}

// Draw picks k distinct elements of pool uniformly at random by partial
// Fisher-Yates: each pick is swapped to the end of the still-available
// prefix, which then shrinks by one. The drawn elements are returned as the
// tail of pool, which is permuted in place. k is clamped to len(pool).
func Draw[T any](r *XorShift64, pool []T, k int) []T {
	n := len(pool)
	k = min(max(k, 0), n)
	for i := 0; i < k; i++ {
		last := n - 1 - i
		j := int(r.Uint64n(uint64(last + 1)))
		pool[j], pool[last] = pool[last], pool[j]
	}
	return pool[n-k:]
}
