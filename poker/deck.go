package poker

// IntSource supplies uniform integers in [0, n). Both *rand.Rand from math/rand/v2
// and the xorshift generator in internal/randutil satisfy it.
type IntSource interface {
	IntN(n int) int
}

// Deck represents a standard 52-card deck, optionally with some cards removed.
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	size  int
	next  int
	rng   IntSource
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng IntSource) *Deck {
	return NewDeckWithout(rng, 0)
}

// NewDeckWithout creates a shuffled deck that excludes the given cards.
func NewDeckWithout(rng IntSource, excluded CardSet) *Deck {
	d := &Deck{rng: rng}
	for id := range Card(DeckSize) {
		if !excluded.Contains(id) {
			d.cards[d.size] = id
			d.size++
		}
	}
	d.Shuffle()
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	for i := d.size - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > d.size {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= d.size {
		return 0, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// Reset resets and reshuffles the deck
func (d *Deck) Reset() {
	d.Shuffle()
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
