package equity

import (
	"github.com/lox/pokerodds/poker"
)

// Exact enumerates every way the random seats and the rest of the board can
// be dealt and tallies each showdown. It accepts 2 to 9 participants and is
// the path every other exact entry point goes through.
func Exact(s Scenario) (Result, error) {
	return exact(s, MinPlayers)
}

// ExactMultiway is Exact for tables of 3 to 9 participants.
func ExactMultiway(s Scenario) (Result, error) {
	return exact(s, MinMultiwayPlayers)
}

// ExactVsHand returns the hero's exact tallies against one known hand.
func ExactVsHand(hero, villain [2]poker.Card, board []poker.Card) (Counts, error) {
	res, err := Exact(HeadsUp(hero, villain, board))
	if err != nil {
		return Counts{}, err
	}
	return res.Hero(), nil
}

// ExactVsRandom returns the hero's exact tallies against one opponent holding
// any two of the unseen cards, every holding weighted equally.
func ExactVsRandom(hero [2]poker.Card, board []poker.Card) (Counts, error) {
	res, err := Exact(Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board})
	if err != nil {
		return Counts{}, err
	}
	return res.Hero(), nil
}

func exact(s Scenario, minPlayers int) (Result, error) {
	p, err := newPlan(s, minPlayers, nil)
	if err != nil {
		return Result{}, err
	}
	res, _ := p.enumerate(walker{}, nil, nil)
	return res, nil
}

// enumeration is one exact run over a plan, optionally restricted to a shard
// of the outermost loop.
type enumeration struct {
	p     *plan
	t     *table
	w     walker
	shard owner
	// rest[d] holds the cards left after dealing random seat d.
	rest  [][]poker.Card
	extra [BoardSize]poker.Card
}

// enumerate visits every showdown owned by shard. It reports false if the
// hook stopped the run early.
func (p *plan) enumerate(w walker, shard owner, h hook) (Result, bool) {
	e := &enumeration{
		p:     p,
		t:     p.newTable(h),
		w:     w,
		shard: shard,
		rest:  make([][]poker.Card, len(p.randomSeats)),
	}
	for i := range e.rest {
		e.rest[i] = make([]poker.Card, 0, len(p.unseen))
	}
	ok := e.deal(0, p.unseen)
	e.t.finish()
	return e.t.res, ok && !e.t.stopped
}

// deal assigns random seat number depth every remaining holding, then
// completes the board once all random seats are filled.
func (e *enumeration) deal(depth int, avail []poker.Card) bool {
	var shard owner
	if depth == 0 {
		shard = e.shard
	}
	if depth == len(e.p.randomSeats) {
		return e.complete(avail, shard)
	}

	seat := e.p.randomSeats[depth]
	var hole [2]poker.Card
	return e.w.walk(avail, 2, hole[:], shard, func(h []poker.Card) bool {
		e.t.seat(seat, h[0], h[1])
		rest := e.rest[depth][:0]
		for _, c := range avail {
			if c != h[0] && c != h[1] {
				rest = append(rest, c)
			}
		}
		e.rest[depth] = rest
		return e.deal(depth+1, rest)
	})
}

func (e *enumeration) complete(avail []poker.Card, shard owner) bool {
	return e.w.walk(avail, e.p.missing, e.extra[:], shard, func(extra []poker.Card) bool {
		b := e.p.board
		for _, c := range extra {
			b.Set(c)
		}
		return e.t.showdown(b)
	})
}
