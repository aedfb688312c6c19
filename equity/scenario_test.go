package equity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerodds/poker"
)

func TestValidateErrors(t *testing.T) {
	hero := hole(t, "AsKs")

	// Every card except the hero's and the last five, leaving too few to deal.
	var dead []poker.Card
	for id := range poker.Card(poker.DeckSize) {
		if id != hero[0] && id != hero[1] && len(dead) < 45 {
			dead = append(dead, id)
		}
	}

	tenPlayers := make([]Seat, 9)
	for i := range tenPlayers {
		tenPlayers[i] = Random()
	}

	tests := []struct {
		name     string
		scenario Scenario
		want     error
	}{
		{"board of two", Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board("2c3d")}, ErrInvalidBoardSize},
		{"board of six", Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board("2c3d4h5s6c7d")}, ErrInvalidBoardSize},
		{"no opponents", Scenario{Hero: hero}, ErrInvalidPlayerCount},
		{"ten players", Scenario{Hero: hero, Opponents: tenPlayers}, ErrInvalidPlayerCount},
		{"invalid card", Scenario{Hero: [2]poker.Card{60, 1}, Opponents: []Seat{Random()}}, poker.ErrInvalidCard},
		{"hero and opponent share", Scenario{Hero: hero, Opponents: []Seat{known(t, "AsQd")}}, poker.ErrDuplicateCard},
		{"hero and board share", Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board("Ks7h2c")}, poker.ErrDuplicateCard},
		{"board and dead share", Scenario{Hero: hero, Opponents: []Seat{Random()}, Board: board("2c3c4c"), Dead: board("4c")}, poker.ErrDuplicateCard},
		{"pair in own hand", Scenario{Hero: hole(t, "AsAs"), Opponents: []Seat{Random()}}, poker.ErrDuplicateCard},
		{"too many dead", Scenario{Hero: hero, Opponents: []Seat{Random()}, Dead: dead}, ErrInsufficientDeck},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			_, err = Exact(tt.scenario)
			assert.ErrorIs(t, err, tt.want)
			_, err = MonteCarlo(tt.scenario, 100, 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateOrder(t *testing.T) {
	// A bad board size is reported before anything else.
	s := Scenario{Hero: hole(t, "AsAs"), Board: board("2c")}
	assert.ErrorIs(t, s.Validate(), ErrInvalidBoardSize)

	// Invalid ids are reported before duplicates.
	s = Scenario{Hero: hole(t, "AsAs"), Opponents: []Seat{{Hole: [2]poker.Card{70, 1}}}}
	assert.ErrorIs(t, s.Validate(), poker.ErrInvalidCard)
}

func TestValidateAccepts(t *testing.T) {
	full := make([]Seat, 8)
	for i := range full {
		full[i] = Random()
	}
	for _, s := range []Scenario{
		{Hero: hole(t, "AsKs"), Opponents: []Seat{Random()}},
		{Hero: hole(t, "AsKs"), Opponents: []Seat{known(t, "QdQc")}, Board: board("2c3d4h")},
		{Hero: hole(t, "AsKs"), Opponents: full, Board: board("2c3d4h5s6c")},
	} {
		assert.NoError(t, s.Validate())
	}
}

func TestMultiwayPlayerCount(t *testing.T) {
	s := Scenario{Hero: hole(t, "AsKs"), Opponents: []Seat{known(t, "QdQc")}, Board: board("2c3d4h5s6c")}
	_, err := ExactMultiway(s)
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)
	_, err = MonteCarloMultiway(s, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidPlayerCount)

	s.Opponents = append(s.Opponents, known(t, "JhTh"))
	res, err := ExactMultiway(s)
	require.NoError(t, err)
	assert.Len(t, res.Players, 3)
}

func TestScenarioAccessors(t *testing.T) {
	s := Scenario{
		Hero:      hole(t, "AsKs"),
		Opponents: []Seat{known(t, "QdQc"), Random(), Random()},
		Board:     board("2c3d4h5s"),
	}
	assert.Equal(t, 4, s.Players())
	assert.Equal(t, 2, s.RandomSeats())
	assert.Equal(t, 1, s.Missing())
	assert.Equal(t, Turn, s.Stage())
	assert.Equal(t, "QdQc", s.Opponents[0].String())
	assert.Equal(t, "??", s.Opponents[1].String())

	for n, want := range map[int]Stage{0: Preflop, 3: Flop, 4: Turn, 5: River} {
		assert.Equal(t, want, StageOf(n))
	}
	assert.Equal(t, "flop", Flop.String())
}

func TestParseSeat(t *testing.T) {
	for _, in := range []string{"", "??", "random", " Random "} {
		s, err := ParseSeat(in)
		require.NoError(t, err, in)
		assert.True(t, s.Random, in)
	}

	s, err := ParseSeat("Qs Qd")
	require.NoError(t, err)
	assert.False(t, s.Random)
	assert.Equal(t, "QsQd", s.String())

	_, err = ParseSeat("QsQdQc")
	assert.ErrorIs(t, err, poker.ErrParse)
	_, err = ParseSeat("Xx")
	assert.Error(t, err)
}
