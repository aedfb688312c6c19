package equity

import (
	"fmt"
	"strings"

	"github.com/lox/pokerodds/poker"
)

const (
	// MinPlayers is the smallest table the general entry points accept.
	MinPlayers = 2
	// MinMultiwayPlayers is the smallest table the multiway entry points accept.
	MinMultiwayPlayers = 3
	// MaxPlayers is the largest supported table.
	MaxPlayers = 9
	// BoardSize is the number of community cards at showdown.
	BoardSize = 5
)

// Seat describes an opponent: either known hole cards, or a random holding
// drawn uniformly from the cards nobody else holds.
type Seat struct {
	Hole   [2]poker.Card
	Random bool
}

// Known returns a seat holding the given cards.
func Known(a, b poker.Card) Seat {
	return Seat{Hole: [2]poker.Card{a, b}}
}

// Random returns a seat with unknown hole cards.
func Random() Seat {
	return Seat{Random: true}
}

// String renders the seat as "AsKh", or "??" for a random seat.
func (s Seat) String() string {
	if s.Random {
		return "??"
	}
	return s.Hole[0].String() + s.Hole[1].String()
}

// ParseSeat parses an opponent: two cards such as "QsQd", or "??",
// "random" or an empty string for unknown hole cards.
func ParseSeat(s string) (Seat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "??", "random":
		return Random(), nil
	}
	h, err := poker.ParseHole(s)
	if err != nil {
		return Seat{}, err
	}
	return Known(h[0], h[1]), nil
}

// Scenario is a single equity question: the hero's hole cards against one or
// more opponents, with part of the board possibly known. Dead cards are
// known to be out of play and never dealt.
type Scenario struct {
	Hero      [2]poker.Card
	Opponents []Seat
	Board     []poker.Card
	Dead      []poker.Card
}

// HeadsUp builds a scenario against a single known opponent.
func HeadsUp(hero, villain [2]poker.Card, board []poker.Card) Scenario {
	return Scenario{
		Hero:      hero,
		Opponents: []Seat{Known(villain[0], villain[1])},
		Board:     board,
	}
}

// Players returns the number of participants including the hero.
func (s Scenario) Players() int {
	return 1 + len(s.Opponents)
}

// RandomSeats returns the number of opponents with unknown hole cards.
func (s Scenario) RandomSeats() int {
	n := 0
	for _, o := range s.Opponents {
		if o.Random {
			n++
		}
	}
	return n
}

// Missing returns how many board cards remain to be dealt.
func (s Scenario) Missing() int {
	return BoardSize - len(s.Board)
}

// Stage names the street implied by the board length.
func (s Scenario) Stage() Stage {
	return StageOf(len(s.Board))
}

// Validate reports the first problem with the scenario, checking the board
// size, the number of participants, card ids, repeated cards and finally
// whether enough unseen cards remain.
func (s Scenario) Validate() error {
	_, err := s.validate(MinPlayers)
	return err
}

type roleCard struct {
	role string
	card poker.Card
}

func (s Scenario) cards() []roleCard {
	out := make([]roleCard, 0, 2+2*len(s.Opponents)+len(s.Board)+len(s.Dead))
	out = append(out, roleCard{"hero", s.Hero[0]}, roleCard{"hero", s.Hero[1]})
	for i, o := range s.Opponents {
		if o.Random {
			continue
		}
		role := fmt.Sprintf("opponent %d", i+1)
		out = append(out, roleCard{role, o.Hole[0]}, roleCard{role, o.Hole[1]})
	}
	for _, c := range s.Board {
		out = append(out, roleCard{"board", c})
	}
	for _, c := range s.Dead {
		out = append(out, roleCard{"dead", c})
	}
	return out
}

// validate checks the scenario for a table of at least minPlayers and returns
// the set of cards already accounted for.
func (s Scenario) validate(minPlayers int) (poker.CardSet, error) {
	switch len(s.Board) {
	case 0, 3, 4, 5:
	default:
		return 0, fmt.Errorf("%w: %d cards (want 0, 3, 4 or 5)", ErrInvalidBoardSize, len(s.Board))
	}

	if n := s.Players(); n < minPlayers || n > MaxPlayers {
		return 0, fmt.Errorf("%w: %d players (want %d to %d)", ErrInvalidPlayerCount, n, minPlayers, MaxPlayers)
	}

	cards := s.cards()
	for _, rc := range cards {
		if !rc.card.Valid() {
			return 0, fmt.Errorf("%s: %w: id %d", rc.role, poker.ErrInvalidCard, rc.card)
		}
	}

	var used poker.CardSet
	for _, rc := range cards {
		if used.Contains(rc.card) {
			return 0, fmt.Errorf("%s: %w: %s", rc.role, poker.ErrDuplicateCard, rc.card)
		}
		used.Add(rc.card)
	}

	need := 2*s.RandomSeats() + s.Missing()
	if unseen := poker.DeckSize - used.Len(); unseen < need {
		return 0, fmt.Errorf("%w: need %d cards, %d unseen", ErrInsufficientDeck, need, unseen)
	}
	return used, nil
}

// Stage is the betting street implied by the number of known board cards.
type Stage uint8

const (
	Preflop Stage = iota
	Flop
	Turn
	River
)

// StageOf maps a board length to its street. Lengths that are not a legal
// board map to the street they would be completing.
func StageOf(boardLen int) Stage {
	switch {
	case boardLen >= 5:
		return River
	case boardLen == 4:
		return Turn
	case boardLen >= 3:
		return Flop
	default:
		return Preflop
	}
}

func (s Stage) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}
