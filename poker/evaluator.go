package poker

import (
	"fmt"
	"sync"
)

// Evaluator scores 5 to 7 card hands using shared lookup tables.
// An Evaluator holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	t *Tables
}

// NewEvaluator creates an evaluator over the given tables, or the default
// tables when t is nil.
func NewEvaluator(t *Tables) *Evaluator {
	if t == nil {
		t = DefaultTables()
	}
	return &Evaluator{t: t}
}

var defaultEvaluator = sync.OnceValue(func() *Evaluator {
	return NewEvaluator(DefaultTables())
})

// DefaultEvaluator returns the process-wide evaluator.
func DefaultEvaluator() *Evaluator {
	return defaultEvaluator()
}

// Tables returns the lookup tables the evaluator reads.
func (e *Evaluator) Tables() *Tables {
	return e.t
}

// Evaluate scores the best five-card hand contained in b. The board must hold
// between 5 and 7 cards; the result is unspecified otherwise.
func (e *Evaluator) Evaluate(b BitBoard) Score {
	t := e.t
	h0, h1, h2, h3 := b.suits[0], b.suits[1], b.suits[2], b.suits[3]
	ranks := h0 | h1 | h2 | h3

	// At most one suit can hold five of seven cards.
	flushMask := uint16(0)
	switch {
	case t.PopCount(h0) >= 5:
		flushMask = h0
	case t.PopCount(h1) >= 5:
		flushMask = h1
	case t.PopCount(h2) >= 5:
		flushMask = h2
	case t.PopCount(h3) >= 5:
		flushMask = h3
	}

	if flushMask != 0 {
		if top, ok := t.StraightTop(flushMask); ok {
			return packScore(StraightFlush, int(top), 0, 0, 0, 0)
		}
	}

	quads := h0 & h1 & h2 & h3
	atLeast3 := (h0 & h1 & h2) | (h0 & h1 & h3) | (h0 & h2 & h3) | (h1 & h2 & h3)
	atLeast2 := (h0 & h1) | (h0 & h2) | (h0 & h3) | (h1 & h2) | (h1 & h3) | (h2 & h3)

	if quads != 0 {
		q := t.HighBit(quads)
		rest := ranks &^ (1 << q)
		return packScore(FourOfAKind, q, popHigh(t, &rest), 0, 0, 0)
	}

	trips := atLeast3 &^ quads
	if trips != 0 {
		tr := t.HighBit(trips)
		// A second set of trips plays as the pair.
		if p := t.HighBit(atLeast2 &^ (1 << tr)); p >= 0 {
			return packScore(FullHouse, tr, p, 0, 0, 0)
		}
	}

	if flushMask != 0 {
		r := e.topRanks(flushMask)
		return packScore(Flush, r[0], r[1], r[2], r[3], r[4])
	}

	if top, ok := t.StraightTop(ranks); ok {
		return packScore(Straight, int(top), 0, 0, 0, 0)
	}

	if trips != 0 {
		tr := t.HighBit(trips)
		rest := ranks &^ (1 << tr)
		k1 := popHigh(t, &rest)
		k2 := popHigh(t, &rest)
		return packScore(ThreeOfAKind, tr, k1, k2, 0, 0)
	}

	pairs := atLeast2 &^ atLeast3
	if pairs != 0 {
		p1 := t.HighBit(pairs)
		rest := ranks &^ (1 << p1)
		if p2 := t.HighBit(pairs &^ (1 << p1)); p2 >= 0 {
			rest &^= 1 << p2
			return packScore(TwoPair, p1, p2, popHigh(t, &rest), 0, 0)
		}
		k1 := popHigh(t, &rest)
		k2 := popHigh(t, &rest)
		k3 := popHigh(t, &rest)
		return packScore(Pair, p1, k1, k2, k3, 0)
	}

	r := e.topRanks(ranks)
	return packScore(HighCard, r[0], r[1], r[2], r[3], r[4])
}

// topRanks extracts the five highest ranks of mask, clearing each in turn.
func (e *Evaluator) topRanks(mask uint16) [5]int {
	var out [5]int
	for i := range out {
		out[i] = popHigh(e.t, &mask)
	}
	return out
}

// popHigh removes and returns the highest rank in mask; an empty mask yields 0.
func popHigh(t *Tables, mask *uint16) int {
	r := t.HighBit(*mask)
	if r < 0 {
		return 0
	}
	*mask &^= 1 << r
	return r
}

// EvaluateCards validates and scores 5 to 7 distinct cards.
func (e *Evaluator) EvaluateCards(cards ...Card) (Score, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("%w: %d cards (want 5 to 7)", ErrInvalidHandSize, len(cards))
	}
	b, err := NewBitBoard(cards...)
	if err != nil {
		return 0, err
	}
	return e.Evaluate(b), nil
}

// EvaluateBatch scores every board and writes results into out.
// If out is smaller than boards, a new slice is allocated and returned.
func (e *Evaluator) EvaluateBatch(boards []BitBoard, out []Score) []Score {
	if len(out) < len(boards) {
		out = make([]Score, len(boards))
	} else {
		out = out[:len(boards)]
	}
	for i, b := range boards {
		out[i] = e.Evaluate(b)
	}
	return out
}

// SumScores evaluates every board and returns the wrapping sum of the scores.
// Benchmarks use it to keep evaluation from being optimised away.
func (e *Evaluator) SumScores(boards []BitBoard) uint32 {
	var acc uint32
	for _, b := range boards {
		acc += uint32(e.Evaluate(b))
	}
	return acc
}

// Evaluate scores a 5 to 7 card board with the default evaluator.
func Evaluate(b BitBoard) Score {
	return defaultEvaluator().Evaluate(b)
}

// EvaluateCards validates and scores cards with the default evaluator.
func EvaluateCards(cards ...Card) (Score, error) {
	return defaultEvaluator().EvaluateCards(cards...)
}
