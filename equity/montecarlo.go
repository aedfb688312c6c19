package equity

import (
	"slices"

	"github.com/lox/pokerodds/internal/randutil"
	"github.com/lox/pokerodds/poker"
)

// MonteCarlo estimates equity from iterations random deals. Each deal fills
// the random seats in order and then the board, drawing without replacement
// from the unseen cards. The same scenario, iteration count and seed always
// produce identical tallies.
func MonteCarlo(s Scenario, iterations, seed uint64) (Result, error) {
	return monteCarlo(s, MinPlayers, iterations, seed)
}

// MonteCarloMultiway is MonteCarlo for tables of 3 to 9 participants.
func MonteCarloMultiway(s Scenario, iterations, seed uint64) (Result, error) {
	return monteCarlo(s, MinMultiwayPlayers, iterations, seed)
}

// MonteCarloVsHand estimates the hero's tallies against one known hand.
func MonteCarloVsHand(hero, villain [2]poker.Card, board []poker.Card, iterations, seed uint64) (Counts, error) {
	res, err := MonteCarlo(HeadsUp(hero, villain, board), iterations, seed)
	if err != nil {
		return Counts{}, err
	}
	return res.Hero(), nil
}

// MonteCarloVsRandom estimates the hero's tallies against one random hand.
func MonteCarloVsRandom(hero [2]poker.Card, board []poker.Card, iterations, seed uint64) (Counts, error) {
	res, err := MonteCarlo(Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board}, iterations, seed)
	if err != nil {
		return Counts{}, err
	}
	return res.Hero(), nil
}

func monteCarlo(s Scenario, minPlayers int, iterations, seed uint64) (Result, error) {
	p, err := newPlan(s, minPlayers, nil)
	if err != nil {
		return Result{}, err
	}
	res, _ := p.sample(iterations, seed, nil)
	return res, nil
}

// sample runs iterations random deals with a generator seeded from seed. It
// reports false if the hook stopped the run early.
func (p *plan) sample(iterations, seed uint64, h hook) (Result, bool) {
	t := p.newTable(h)
	rng := randutil.NewXorShift64(seed)
	pool := slices.Clone(p.unseen)
	seats := len(p.randomSeats)
	need := 2*seats + p.missing

	for range iterations {
		drawn := randutil.Draw(rng, pool, need)
		for i, seat := range p.randomSeats {
			t.seat(seat, drawn[2*i], drawn[2*i+1])
		}
		b := p.board
		for _, c := range drawn[2*seats:] {
			b.Set(c)
		}
		if !t.showdown(b) {
			return t.res, false
		}
	}
	t.finish()
	return t.res, !t.stopped
}
