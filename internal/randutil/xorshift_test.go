package randutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXorShiftSequence(t *testing.T) {
	r := NewXorShift64(1)
	x := r.State()
	for range 100 {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		require.Equal(t, x, r.Next())
	}
}

func TestXorShiftDeterministic(t *testing.T) {
	a, b := NewXorShift64(42), NewXorShift64(42)
	c := NewXorShift64(43)
	same := true
	for range 1000 {
		va, vb, vc := a.Next(), b.Next(), c.Next()
		require.Equal(t, va, vb)
		if va != vc {
			same = false
		}
	}
	assert.False(t, same, "different seeds produced identical streams")
}

func TestXorShiftNeverZero(t *testing.T) {
	for _, seed := range []uint64{0, 1, goldenRatio64, ^uint64(0)} {
		r := NewXorShift64(seed)
		assert.NotZero(t, r.State(), "seed %d", seed)
		for range 1000 {
			require.NotZero(t, r.Next())
		}
	}
}

func TestUint64nRange(t *testing.T) {
	r := NewXorShift64(7)
	counts := make([]int, 10)
	const n = 100_000
	for range n {
		v := r.Uint64n(10)
		require.Less(t, v, uint64(10))
		counts[v]++
	}
	for i, c := range counts {
		assert.InDelta(t, n/10, c, n/100, "bucket %d", i)
	}
	assert.Panics(t, func() { r.Uint64n(0) })
	assert.Panics(t, func() { r.IntN(0) })
}

func TestDrawDistinct(t *testing.T) {
	r := NewXorShift64(99)
	pool := make([]int, 52)
	for i := range pool {
		pool[i] = i
	}
	for range 1000 {
		drawn := Draw(r, pool, 9)
		require.Len(t, drawn, 9)
		seen := map[int]bool{}
		for _, v := range drawn {
			require.False(t, seen[v], "duplicate %d", v)
			require.True(t, v >= 0 && v < 52)
			seen[v] = true
		}
	}
	sorted := slices.Clone(pool)
	slices.Sort(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v, "pool lost or duplicated elements")
	}
}

func TestDrawClamps(t *testing.T) {
	r := NewXorShift64(5)
	pool := []string{"a", "b", "c"}
	assert.Len(t, Draw(r, pool, 10), 3)
	assert.Empty(t, Draw(r, pool, 0))
	assert.Empty(t, Draw(r, pool, -1))
}

func TestDrawUniformFirstPick(t *testing.T) {
	r := NewXorShift64(11)
	counts := make([]int, 5)
	const n = 50_000
	for range n {
		pool := []int{0, 1, 2, 3, 4}
		counts[Draw(r, pool, 1)[0]]++
	}
	for i, c := range counts {
		assert.InDelta(t, n/5, c, n/50, "element %d", i)
	}
}

func TestChunkSeed(t *testing.T) {
	assert.EqualValues(t, 123, ChunkSeed(123, 0))
	assert.Equal(t, ChunkSeed(123, 5), ChunkSeed(123, 5))
	uniq := map[uint64]bool{}
	for i := range 64 {
		uniq[ChunkSeed(123, i)] = true
	}
	assert.Len(t, uniq, 64)
	assert.NotEqual(t, ChunkSeed(123, 1), ChunkSeed(124, 1))
}

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(5), New(5)
	for range 100 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}
