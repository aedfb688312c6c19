package equity

import (
	"github.com/lox/pokerodds/poker"
)

// Outcome is the result of a heads-up showdown from the hero's side.
type Outcome int8

const (
	VillainWin Outcome = -1
	Tie        Outcome = 0
	HeroWin    Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case HeroWin:
		return "hero wins"
	case VillainWin:
		return "villain wins"
	default:
		return "tie"
	}
}

// Showdown compares two known hands on a complete board.
func Showdown(hero, villain [2]poker.Card, board [BoardSize]poker.Card) (Outcome, error) {
	p, err := newPlan(HeadsUp(hero, villain, board[:]), MinPlayers, nil)
	if err != nil {
		return Tie, err
	}
	h := p.ev.Evaluate(p.holes[0].Union(p.board))
	v := p.ev.Evaluate(p.holes[1].Union(p.board))
	return Outcome(poker.Compare(h, v)), nil
}
