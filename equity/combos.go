package equity

import (
	"math"
	"math/bits"

	"github.com/lox/pokerodds/poker"
)

// walker enumerates k-subsets of a card slice in lexicographic index order.
// Subsets of size 0, 1 and 2 use dedicated loops; generic forces the N-ary
// index walk for every size.
type walker struct {
	generic bool
}

// owner decides whether an outer loop index belongs to the current shard.
// A nil owner accepts every index.
type owner func(i int) bool

func (o owner) owns(i int) bool {
	return o == nil || o(i)
}

// walk calls fn with every k-subset of cards. buf must have room for k cards
// and is reused between calls, so fn must not retain it. The shard filter
// applies to the index of the first card in each subset. walk returns false
// if fn asked to stop.
func (w walker) walk(cards []poker.Card, k int, buf []poker.Card, shard owner, fn func([]poker.Card) bool) bool {
	n := len(cards)
	if k < 0 || k > n {
		return true
	}
	buf = buf[:k]

	if k == 0 {
		if !shard.owns(0) {
			return true
		}
		return fn(buf)
	}

	if !w.generic {
		switch k {
		case 1:
			for i, c := range cards {
				if !shard.owns(i) {
					continue
				}
				buf[0] = c
				if !fn(buf) {
					return false
				}
			}
			return true
		case 2:
			for i := 0; i < n-1; i++ {
				if !shard.owns(i) {
					continue
				}
				buf[0] = cards[i]
				for j := i + 1; j < n; j++ {
					buf[1] = cards[j]
					if !fn(buf) {
						return false
					}
				}
			}
			return true
		}
	}

	var idxBuf [BoardSize]int
	var idx []int
	if k <= len(idxBuf) {
		idx = idxBuf[:k]
	} else {
		idx = make([]int, k)
	}
	for i := range idx {
		idx[i] = i
	}
	for {
		if shard.owns(idx[0]) {
			for i, j := range idx {
				buf[i] = cards[j]
			}
			if !fn(buf) {
				return false
			}
		}
		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return true
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// binomial returns C(n, k), saturating at math.MaxUint64.
func binomial(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	var c uint64 = 1
	for i := 1; i <= k; i++ {
		// c*(n-k+i) is divisible by i at every step.
		hi, lo := bits.Mul64(c, uint64(n-k+i))
		if hi != 0 {
			return math.MaxUint64
		}
		c = lo / uint64(i)
	}
	return c
}

// mulSat multiplies, saturating at math.MaxUint64.
func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// ScenarioCount returns the number of distinct showdowns exact enumeration
// visits for s: every holding for each random seat in turn, times every
// completion of the board. It saturates at math.MaxUint64 and returns 0 for
// an invalid scenario.
func ScenarioCount(s Scenario) uint64 {
	used, err := s.validate(MinPlayers)
	if err != nil {
		return 0
	}
	unseen := poker.DeckSize - used.Len()
	var count uint64 = 1
	for range s.RandomSeats() {
		count = mulSat(count, binomial(unseen, 2))
		unseen -= 2
	}
	return mulSat(count, binomial(unseen, s.Missing()))
}
