package poker

import (
	"fmt"
	"strings"
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// NumHandTypes is the number of hand categories.
const NumHandTypes = 9

// String returns a human-readable hand description.
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// significantRanks is how many rank slots each category fills.
var significantRanks = [NumHandTypes]int{
	HighCard:      5,
	Pair:          4,
	TwoPair:       3,
	ThreeOfAKind:  3,
	Straight:      1,
	Flush:         5,
	FullHouse:     2,
	FourOfAKind:   2,
	StraightFlush: 1,
}

// Score is a packed hand strength. Higher scores beat lower scores and equal
// scores split, so callers compare with plain integer operators.
//
// Layout: bits 20-23 hold the HandType, followed by five 4-bit rank slots
// (bits 16-19 down to 0-3) listing the deciding ranks from most to least
// significant. Unused slots are zero.
type Score uint32

const (
	categoryShift = 20
	slotBits      = 4
	numSlots      = 5
)

// packScore builds a score from a category and up to five ranks.
func packScore(t HandType, r0, r1, r2, r3, r4 int) Score {
	return Score(uint32(t)<<categoryShift |
		uint32(r0)<<16 |
		uint32(r1)<<12 |
		uint32(r2)<<8 |
		uint32(r3)<<4 |
		uint32(r4))
}

// Type returns the hand category.
func (s Score) Type() HandType {
	return HandType(s >> categoryShift & 0xF)
}

// Value unpacks the score.
func (s Score) Value() HandValue {
	t := s.Type()
	n := numSlots
	if int(t) < NumHandTypes {
		n = significantRanks[t]
	}
	v := HandValue{Type: t, Ranks: make([]Rank, n)}
	for i := range n {
		shift := uint((numSlots - 1 - i) * slotBits)
		v.Ranks[i] = Rank(s >> shift & 0xF)
	}
	return v
}

// String describes the hand, e.g. "Full House (K, 7)".
func (s Score) String() string {
	return s.Value().String()
}

// HandValue is the unpacked form of a Score: the category plus the ranks
// that decide ties within it, most significant first.
type HandValue struct {
	Type  HandType
	Ranks []Rank
}

// Score packs the value. Ordering is preserved: comparing scores is the same
// as comparing types and then ranks lexicographically.
func (v HandValue) Score() Score {
	var r [numSlots]int
	for i := 0; i < len(v.Ranks) && i < numSlots; i++ {
		r[i] = int(v.Ranks[i])
	}
	return packScore(v.Type, r[0], r[1], r[2], r[3], r[4])
}

// String describes the value, e.g. "Two Pair (A, 9, K)".
func (v HandValue) String() string {
	if len(v.Ranks) == 0 {
		return v.Type.String()
	}
	parts := make([]string, len(v.Ranks))
	for i, r := range v.Ranks {
		parts[i] = r.String()
	}
	return fmt.Sprintf("%s (%s)", v.Type, strings.Join(parts, ", "))
}

// Compare returns 1 if a wins, -1 if b wins, 0 for tie
func Compare(a, b Score) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
