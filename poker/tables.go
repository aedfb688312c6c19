package poker

import "sync"

// TableSize is the number of distinct 13-bit rank patterns.
const TableSize = 1 << NumRanks

// wheelMask is A-2-3-4-5.
const wheelMask uint16 = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five

// Tables are lookup tables indexed by a 13-bit rank pattern. They are built
// once and never modified, so one instance can be shared by any number of
// goroutines without synchronisation.
type Tables struct {
	popCount    [TableSize]uint8
	highBit     [TableSize]int8
	straightTop [TableSize]int8
}

// NewTables builds the population count, highest bit and straight tables.
func NewTables() *Tables {
	t := &Tables{}
	for m := range TableSize {
		mask := uint16(m)
		t.popCount[m] = popCount13(mask)
		t.highBit[m] = highBit13(mask)
		t.straightTop[m] = straightTop13(mask)
	}
	return t
}

// DefaultTables returns the process-wide tables, building them on first use.
var DefaultTables = sync.OnceValue(NewTables)

// PopCount returns the number of ranks set in mask.
func (t *Tables) PopCount(mask uint16) int {
	return int(t.popCount[mask&RankMaskBits])
}

// HighBit returns the highest rank set in mask, or -1 for an empty mask.
func (t *Tables) HighBit(mask uint16) int {
	return int(t.highBit[mask&RankMaskBits])
}

// StraightTop returns the top card of the best straight contained in mask.
// The wheel A-2-3-4-5 reports Five.
func (t *Tables) StraightTop(mask uint16) (Rank, bool) {
	top := t.straightTop[mask&RankMaskBits]
	if top < 0 {
		return 0, false
	}
	return Rank(top), true
}

func popCount13(mask uint16) uint8 {
	var n uint8
	for ; mask != 0; mask >>= 1 {
		n += uint8(mask & 1)
	}
	return n
}

func highBit13(mask uint16) int8 {
	for r := int8(Ace); r >= 0; r-- {
		if mask&(1<<uint(r)) != 0 {
			return r
		}
	}
	return -1
}

// straightTop13 scans five-rank windows from the highest down, then the wheel.
func straightTop13(mask uint16) int8 {
	for low := int(Ten); low >= int(Two); low-- {
		window := uint16(0x1F) << uint(low)
		if mask&window == window {
			return int8(low + 4)
		}
	}
	if mask&wheelMask == wheelMask {
		return int8(Five)
	}
	return -1
}
