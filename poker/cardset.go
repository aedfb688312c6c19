package poker

import (
	"fmt"
	"math/bits"
)

// CardSet represents a set of cards using a bitset for fast operations.
// Each card maps to the bit at its id.
type CardSet uint64

// FullDeck contains all 52 cards.
const FullDeck CardSet = 1<<DeckSize - 1

// NewCardSet creates a CardSet from a slice of cards, rejecting invalid and repeated cards.
func NewCardSet(cards ...Card) (CardSet, error) {
	var cs CardSet
	for _, c := range cards {
		if err := cs.AddChecked(c); err != nil {
			return 0, err
		}
	}
	return cs, nil
}

// Add adds a card to the set
func (cs *CardSet) Add(c Card) {
	*cs |= 1 << c
}

// AddChecked adds a card, failing if it is out of range or already present.
func (cs *CardSet) AddChecked(c Card) error {
	if err := validateCard(c); err != nil {
		return err
	}
	if cs.Contains(c) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
	}
	cs.Add(c)
	return nil
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(c Card) bool {
	return cs&(1<<c) != 0
}

// Len returns the number of cards in the set.
func (cs CardSet) Len() int {
	return bits.OnesCount64(uint64(cs))
}

// Cards lists the cards in the set in id order.
func (cs CardSet) Cards() []Card {
	out := make([]Card, 0, cs.Len())
	for m := uint64(cs); m != 0; m &= m - 1 {
		out = append(out, Card(bits.TrailingZeros64(m)))
	}
	return out
}

// Complement returns the cards of the deck that are not in the set.
func (cs CardSet) Complement() CardSet {
	return FullDeck &^ cs
}
