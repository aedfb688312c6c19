package equity

import (
	"math"

	"github.com/lox/pokerodds/poker"
)

// TieUnit is the weight of one whole pot in Counts.TieShares. It is the least
// common multiple of 1..9, so a pot split k ways among up to nine players is
// always a whole number of units.
const TieUnit = 2520

// Counts tallies one participant's outcomes.
type Counts struct {
	Win  uint64
	Tie  uint64
	Loss uint64
	// TieShares sums this participant's share of every split pot, in TieUnit
	// units: a two-way split adds TieUnit/2, a three-way split TieUnit/3.
	TieShares uint64
	// Categories counts the hand type this participant held at each showdown.
	Categories [poker.NumHandTypes]uint64
}

// Total returns the number of showdowns counted.
func (c Counts) Total() uint64 {
	return c.Win + c.Tie + c.Loss
}

func (c Counts) rate(n uint64) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// WinRate is the fraction of showdowns won outright.
func (c Counts) WinRate() float64 { return c.rate(c.Win) }

// TieRate is the fraction of showdowns that ended in a split pot.
func (c Counts) TieRate() float64 { return c.rate(c.Tie) }

// LossRate is the fraction of showdowns lost.
func (c Counts) LossRate() float64 { return c.rate(c.Loss) }

// Equity is the expected share of the pot: outright wins plus each split pot
// divided by the number of players sharing it.
func (c Counts) Equity() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return (float64(c.Win)*TieUnit + float64(c.TieShares)) / (float64(total) * TieUnit)
}

// ConfidenceInterval returns the normal-approximation interval around Equity
// for the given z score (1.96 for 95%), clamped to [0, 1].
func (c Counts) ConfidenceInterval(z float64) (lo, hi float64) {
	total := c.Total()
	if total == 0 {
		return 0, 1
	}
	e := c.Equity()
	se := math.Sqrt(e * (1 - e) / float64(total))
	return max(0, e-z*se), min(1, e+z*se)
}

// CategoryRates returns how often each hand type was held at showdown.
func (c Counts) CategoryRates() [poker.NumHandTypes]float64 {
	var out [poker.NumHandTypes]float64
	for i, n := range c.Categories {
		out[i] = c.rate(n)
	}
	return out
}

func (c *Counts) add(o Counts) {
	c.Win += o.Win
	c.Tie += o.Tie
	c.Loss += o.Loss
	c.TieShares += o.TieShares
	for i := range c.Categories {
		c.Categories[i] += o.Categories[i]
	}
}

// Result holds the tallies for every participant. Players[0] is the hero and
// the opponents follow in scenario order.
type Result struct {
	Players []Counts
	Trials  uint64
}

func newResult(players int) Result {
	return Result{Players: make([]Counts, players)}
}

// Hero returns the hero's tallies.
func (r Result) Hero() Counts {
	if len(r.Players) == 0 {
		return Counts{}
	}
	return r.Players[0]
}

// Equities returns every participant's equity. They sum to one.
func (r Result) Equities() []float64 {
	out := make([]float64, len(r.Players))
	for i, p := range r.Players {
		out[i] = p.Equity()
	}
	return out
}

// merge adds o's tallies into r. Both must describe the same table.
func (r *Result) merge(o Result) {
	if r.Players == nil {
		r.Players = make([]Counts, len(o.Players))
	}
	for i := range o.Players {
		r.Players[i].add(o.Players[i])
	}
	r.Trials += o.Trials
}

// record scores one showdown. The best score wins outright; k players sharing
// the best score each record a tie worth TieUnit/k.
func (r *Result) record(scores []poker.Score) {
	best, n := scores[0], 1
	for _, s := range scores[1:] {
		switch {
		case s > best:
			best, n = s, 1
		case s == best:
			n++
		}
	}

	r.Trials++
	share := uint64(TieUnit / n)
	for i, s := range scores {
		p := &r.Players[i]
		p.Categories[s.Type()]++
		switch {
		case s < best:
			p.Loss++
		case n == 1:
			p.Win++
		default:
			p.Tie++
			p.TieShares += share
		}
	}
}
