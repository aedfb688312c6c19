package tui

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/poker"
)

// ReportOptions controls what RenderReport prints beyond the summary table.
type ReportOptions struct {
	// Possibilities adds a hand-type breakdown per player.
	Possibilities bool
	// Interval adds a 95% confidence interval column for Monte Carlo runs.
	Interval bool
}

// RenderReport writes the result table for a calculation.
func RenderReport(w io.Writer, r *equity.Report, s equity.Scenario, opts ReportOptions) error {
	if len(s.Board) > 0 {
		fmt.Fprintf(w, "%s\n", HeaderStyle.Render("board"))
		fmt.Fprintf(w, "%s\n\n", RenderCards(s.Board))
	}
	if len(s.Dead) > 0 {
		fmt.Fprintf(w, "%s %s\n\n", InfoStyle.Render("dead"), RenderCards(s.Dead))
	}

	interval := opts.Interval && r.Method == equity.MethodMonteCarlo

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s", HeaderStyle.Render("hand"), HeaderStyle.Render("win"),
		HeaderStyle.Render("tie"), HeaderStyle.Render("equity"))
	if interval {
		fmt.Fprintf(tw, "\t%s", HeaderStyle.Render("95% ci"))
	}
	fmt.Fprintln(tw)

	for i, p := range r.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s", seatLabel(s, i),
			WinStyle.Render(percent(p.WinRate())),
			TieStyle.Render(percent(p.TieRate())),
			EquityStyle.Render(percent(p.Equity())))
		if interval {
			lo, hi := p.ConfidenceInterval(1.96)
			fmt.Fprintf(tw, "\t%s", InfoStyle.Render(percent(lo)+" - "+percent(hi)))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.Possibilities && len(r.Players) > 0 {
		fmt.Fprintln(w)
		if err := renderPossibilities(w, r, s); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s\n", InfoStyle.Render(Summary(r)))
	return nil
}

// Summary describes how a report was produced, e.g.
// "1,712,304 showdowns (exact, preflop) on 8 workers in 412ms".
func Summary(r *equity.Report) string {
	return fmt.Sprintf("%s showdowns (%s, %s) on %d workers in %v",
		humanize.Comma(int64(r.Trials)), r.Method, r.Stage, r.Workers, r.Duration.Truncate(time.Millisecond))
}

func renderPossibilities(w io.Writer, r *equity.Report, s equity.Scenario) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, CategoryStyle.Render("hand"))
	for i := range r.Players {
		fmt.Fprintf(tw, "\t%s", seatLabel(s, i))
	}
	fmt.Fprintln(tw)

	for t := poker.StraightFlush; ; t-- {
		seen := false
		for _, p := range r.Players {
			if p.Categories[t] > 0 {
				seen = true
				break
			}
		}
		if seen {
			fmt.Fprint(tw, CategoryStyle.Render(t.String()))
			for _, p := range r.Players {
				if p.Categories[t] == 0 {
					fmt.Fprintf(tw, "\t%s", InfoStyle.Render("."))
					continue
				}
				fmt.Fprintf(tw, "\t%s", percent(p.CategoryRates()[t]))
			}
			fmt.Fprintln(tw)
		}
		if t == poker.HighCard {
			break
		}
	}
	return tw.Flush()
}

// seatLabel is the rendered hole cards of participant i, hero first.
func seatLabel(s equity.Scenario, i int) string {
	if i == 0 {
		return HandStyle.Render(RenderCards(s.Hero[:]))
	}
	if i-1 >= len(s.Opponents) {
		return "?"
	}
	o := s.Opponents[i-1]
	if o.Random {
		return InfoStyle.Render("random")
	}
	return RenderCards(o.Hole[:])
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
