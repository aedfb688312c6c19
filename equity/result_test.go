package equity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerodds/poker"
)

func score(t *testing.T, s string) poker.Score {
	t.Helper()
	sc, err := poker.EvaluateCards(poker.MustParseCards(s)...)
	require.NoError(t, err)
	return sc
}

func TestRecord(t *testing.T) {
	flush := score(t, "AhKh9h5h2h")
	pair := score(t, "AcAdKs9c5d")
	high := score(t, "AsQd9s5c3d")

	res := newResult(3)
	res.record([]poker.Score{pair, flush, high})
	res.record([]poker.Score{flush, flush, high})
	res.record([]poker.Score{pair, pair, pair})

	require.EqualValues(t, 3, res.Trials)
	hero, second, third := res.Players[0], res.Players[1], res.Players[2]

	assert.Equal(t, Counts{Loss: 1, Tie: 2, TieShares: TieUnit/2 + TieUnit/3,
		Categories: [poker.NumHandTypes]uint64{poker.Pair: 2, poker.Flush: 1}}, hero)
	assert.EqualValues(t, 1, second.Win)
	assert.EqualValues(t, 2, second.Tie)
	assert.EqualValues(t, 2, third.Loss)
	assert.EqualValues(t, 1, third.Tie)
	requireConsistent(t, res)
}

func TestCountsRates(t *testing.T) {
	c := Counts{Win: 50, Tie: 20, Loss: 30, TieShares: 20 * TieUnit / 2}
	assert.EqualValues(t, 100, c.Total())
	assert.InDelta(t, 0.5, c.WinRate(), 1e-12)
	assert.InDelta(t, 0.2, c.TieRate(), 1e-12)
	assert.InDelta(t, 0.3, c.LossRate(), 1e-12)
	assert.InDelta(t, 0.6, c.Equity(), 1e-12)

	lo, hi := c.ConfidenceInterval(1.96)
	assert.Less(t, lo, 0.6)
	assert.Greater(t, hi, 0.6)
	assert.InDelta(t, 0.192, hi-lo, 0.001)

	var zero Counts
	assert.Zero(t, zero.Equity())
	assert.Zero(t, zero.WinRate())
	lo, hi = zero.ConfidenceInterval(1.96)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestCategoryRates(t *testing.T) {
	c := Counts{Win: 4, Categories: [poker.NumHandTypes]uint64{poker.Pair: 3, poker.Flush: 1}}
	rates := c.CategoryRates()
	assert.InDelta(t, 0.75, rates[poker.Pair], 1e-12)
	assert.InDelta(t, 0.25, rates[poker.Flush], 1e-12)
	assert.Zero(t, rates[poker.HighCard])
}

func TestMerge(t *testing.T) {
	var total Result
	a := Result{Players: []Counts{{Win: 1}, {Loss: 1}}, Trials: 1}
	b := Result{Players: []Counts{{Tie: 1, TieShares: TieUnit / 2}, {Tie: 1, TieShares: TieUnit / 2}}, Trials: 1}
	total.merge(a)
	total.merge(b)
	assert.Equal(t, Result{
		Players: []Counts{{Win: 1, Tie: 1, TieShares: TieUnit / 2}, {Loss: 1, Tie: 1, TieShares: TieUnit / 2}},
		Trials:  2,
	}, total)
	assert.Equal(t, []float64{0.75, 0.25}, total.Equities())
	assert.Equal(t, Counts{}, Result{}.Hero())
}
