package equity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/pokerodds/poker"
)

func hole(t testing.TB, s string) [2]poker.Card {
	t.Helper()
	h, err := poker.ParseHole(s)
	require.NoError(t, err)
	return h
}

func known(t testing.TB, s string) Seat {
	t.Helper()
	h := hole(t, s)
	return Known(h[0], h[1])
}

func board(s string) []poker.Card {
	return poker.MustParseCards(s)
}

// requireConsistent checks every seat's tallies add up to the trial count
// and the pot shares add up to one pot per trial.
func requireConsistent(t *testing.T, res Result) {
	t.Helper()
	var pots uint64
	for i, p := range res.Players {
		require.Equal(t, res.Trials, p.Total(), "seat %d", i)
		var cats uint64
		for _, n := range p.Categories {
			cats += n
		}
		require.Equal(t, res.Trials, cats, "seat %d categories", i)
		pots += p.Win*TieUnit + p.TieShares
	}
	require.Equal(t, res.Trials*TieUnit, pots)
}
