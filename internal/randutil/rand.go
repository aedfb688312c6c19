package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Tools and tests use it where speed matters less than the full rand API.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ChunkSeed derives the seed for chunk i of a run seeded with seed. Chunk 0
// uses seed itself, so a run of one chunk matches a generator seeded directly.
// The result depends only on seed and i.
func ChunkSeed(seed uint64, i int) uint64 {
	if i == 0 {
		return seed
	}
	return mix(seed + uint64(i)*goldenRatio64)
}

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
