package poker

import "fmt"

// Suit is one of the four card suits, numbered Clubs=0 through Spades=3.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of suits in a deck.
const NumSuits = 4

// Rank is a card rank, numbered Two=0 through Ace=12.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

// DeckSize is the number of cards in a standard deck.
const DeckSize = NumSuits * NumRanks

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// String returns the single character used for the suit in card notation.
func (s Suit) String() string {
	if s >= NumSuits {
		return "?"
	}
	return suitChars[s : s+1]
}

// Valid reports whether the suit is one of the four suits.
func (s Suit) Valid() bool {
	return s < NumSuits
}

// String returns the single character used for the rank in card notation.
func (r Rank) String() string {
	if r >= NumRanks {
		return "?"
	}
	return rankChars[r : r+1]
}

// Valid reports whether the rank is between Two and Ace.
func (r Rank) Valid() bool {
	return r < NumRanks
}

// Card identifies one of the 52 cards by its id, suit*13 + rank.
type Card uint8

// NewCard creates a card from a rank and suit without validation.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(suit)*NumRanks + uint8(rank))
}

// MakeCard creates a card from a suit and rank, rejecting values out of range.
func MakeCard(suit Suit, rank Rank) (Card, error) {
	if !suit.Valid() || !rank.Valid() {
		return 0, fmt.Errorf("%w: suit %d rank %d", ErrInvalidCard, suit, rank)
	}
	return NewCard(rank, suit), nil
}

// CardFromID converts an integer id in [0,51] to a card.
func CardFromID(id int) (Card, error) {
	if id < 0 || id >= DeckSize {
		return 0, fmt.Errorf("%w: id %d", ErrInvalidCard, id)
	}
	return Card(id), nil
}

// ID returns the card id in [0,51].
func (c Card) ID() int {
	return int(c)
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(c / NumRanks)
}

// Rank returns the card's rank.
func (c Card) Rank() Rank {
	return Rank(c % NumRanks)
}

// Valid reports whether the card id is inside the deck.
func (c Card) Valid() bool {
	return c < DeckSize
}

// String returns the two character notation, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// validateCard returns ErrInvalidCard for ids outside the deck.
func validateCard(c Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: id %d", ErrInvalidCard, c)
	}
	return nil
}
