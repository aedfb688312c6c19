package poker

import (
	"fmt"
	"math/bits"
)

// RankMaskBits masks the 13 rank bits of a suit mask.
const RankMaskBits uint16 = 1<<NumRanks - 1

// BitBoard holds a set of cards as four 13-bit rank masks, one per suit.
// Bit r of suit s is set when the card (rank r, suit s) is present.
//
// The zero value is an empty board.
type BitBoard struct {
	suits [NumSuits]uint16
}

// NewBitBoard builds a board from cards, rejecting invalid or repeated cards.
func NewBitBoard(cards ...Card) (BitBoard, error) {
	var b BitBoard
	for _, c := range cards {
		if err := b.Add(c); err != nil {
			return BitBoard{}, err
		}
	}
	return b, nil
}

// Add places a card on the board. Adding a card that is already present
// returns ErrDuplicateCard and leaves the board unchanged.
func (b *BitBoard) Add(c Card) error {
	if err := validateCard(c); err != nil {
		return err
	}
	if b.Contains(c) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
	}
	b.Set(c)
	return nil
}

// Set places a card without validation. It is idempotent and intended for
// hot loops whose inputs were validated up front.
func (b *BitBoard) Set(c Card) {
	b.suits[c/NumRanks] |= 1 << (c % NumRanks)
}

// Remove clears a card; removing an absent card is a no-op.
func (b *BitBoard) Remove(c Card) {
	if !c.Valid() {
		return
	}
	b.suits[c/NumRanks] &^= 1 << (c % NumRanks)
}

// Clear removes every card.
func (b *BitBoard) Clear() {
	b.suits = [NumSuits]uint16{}
}

// Contains reports whether the card is on the board.
func (b BitBoard) Contains(c Card) bool {
	if !c.Valid() {
		return false
	}
	return b.suits[c/NumRanks]&(1<<(c%NumRanks)) != 0
}

// ContainsRank reports whether the given rank is present in the given suit.
func (b BitBoard) ContainsRank(suit Suit, rank Rank) bool {
	if !suit.Valid() || !rank.Valid() {
		return false
	}
	return b.suits[suit]&(1<<rank) != 0
}

// SuitMask returns the 13-bit rank mask for one suit.
func (b BitBoard) SuitMask(suit Suit) uint16 {
	return b.suits[suit&3]
}

// SuitMasks returns all four suit masks.
func (b BitBoard) SuitMasks() [NumSuits]uint16 {
	return b.suits
}

// RankMask returns the ranks present in any suit.
func (b BitBoard) RankMask() uint16 {
	return b.suits[0] | b.suits[1] | b.suits[2] | b.suits[3]
}

// SuitCounts returns the number of cards held in each suit.
func (b BitBoard) SuitCounts() [NumSuits]int {
	return [NumSuits]int{
		bits.OnesCount16(b.suits[0]),
		bits.OnesCount16(b.suits[1]),
		bits.OnesCount16(b.suits[2]),
		bits.OnesCount16(b.suits[3]),
	}
}

// Len returns the number of cards on the board.
func (b BitBoard) Len() int {
	return bits.OnesCount64(b.packed())
}

// Union returns a board holding the cards of both boards.
func (b BitBoard) Union(o BitBoard) BitBoard {
	return BitBoard{suits: [NumSuits]uint16{
		b.suits[0] | o.suits[0],
		b.suits[1] | o.suits[1],
		b.suits[2] | o.suits[2],
		b.suits[3] | o.suits[3],
	}}
}

// Overlaps reports whether the boards share a card.
func (b BitBoard) Overlaps(o BitBoard) bool {
	return b.packed()&o.packed() != 0
}

// CardSet converts the board to a card-id bitset.
func (b BitBoard) CardSet() CardSet {
	var cs CardSet
	for s := range NumSuits {
		cs |= CardSet(b.suits[s]) << (s * NumRanks)
	}
	return cs
}

// Cards lists the cards on the board in id order.
func (b BitBoard) Cards() []Card {
	return b.CardSet().Cards()
}

// AtLeast2 returns the ranks held in two or more suits.
func (b BitBoard) AtLeast2() uint16 {
	h0, h1, h2, h3 := b.suits[0], b.suits[1], b.suits[2], b.suits[3]
	return (h0 & h1) | (h0 & h2) | (h0 & h3) | (h1 & h2) | (h1 & h3) | (h2 & h3)
}

// AtLeast3 returns the ranks held in three or more suits.
func (b BitBoard) AtLeast3() uint16 {
	h0, h1, h2, h3 := b.suits[0], b.suits[1], b.suits[2], b.suits[3]
	return (h0 & h1 & h2) | (h0 & h1 & h3) | (h0 & h2 & h3) | (h1 & h2 & h3)
}

// All4 returns the ranks held in every suit.
func (b BitBoard) All4() uint16 {
	return b.suits[0] & b.suits[1] & b.suits[2] & b.suits[3]
}

// String lists the cards on the board, e.g. "[2c Td As]".
func (b BitBoard) String() string {
	return "[" + FormatCards(b.Cards()) + "]"
}

func (b BitBoard) packed() uint64 {
	return uint64(b.suits[0]) | uint64(b.suits[1])<<16 | uint64(b.suits[2])<<32 | uint64(b.suits[3])<<48
}
