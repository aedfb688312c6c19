package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/internal/config"
	"github.com/lox/pokerodds/internal/fileutil"
	"github.com/lox/pokerodds/internal/logging"
	"github.com/lox/pokerodds/internal/protocol"
	"github.com/lox/pokerodds/internal/tui"
	"github.com/lox/pokerodds/poker"
)

type CLI struct {
	Hands         []string `arg:"" help:"Hero hand followed by opponent hands, e.g. 'AcKd QhJs ??' ('??' is a random hand)" required:"true"`
	Board         string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Dead          string   `short:"d" help:"Dead cards that cannot be dealt"`
	Method        string   `short:"m" help:"auto, exact or monte-carlo (overrides config)"`
	Iterations    uint64   `short:"i" help:"Number of Monte Carlo iterations (overrides config)"`
	Seed          *uint64  `help:"Random seed for reproducible results (overrides config)"`
	Workers       int      `short:"w" help:"Parallel workers (overrides config)"`
	Possibilities bool     `short:"p" help:"Show detailed hand type probabilities"`
	Progress      bool     `help:"Show a progress bar while calculating"`
	NoColor       bool     `help:"Disable coloured output"`
	Output        string   `short:"o" type:"path" help:"Also write the result as JSON to this file"`
	Config        string   `short:"c" default:"pokerodds.hcl" help:"Path to HCL configuration file"`
	LogLevel      string   `short:"l" help:"Log level (overrides config)"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Texas Hold'em equity calculator"),
		kong.UsageOnError(),
	)

	if err := run(cli); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
		kctx.Exit(1)
	}
}

func run(cli CLI) error {
	if cli.NoColor {
		tui.DisableColor()
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	applyOverrides(cfg, cli)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scenario, err := parseScenario(cli.Hands, cli.Board, cli.Dead)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(cfg.Equity.Options(), equity.WithLogger(logger))
	method := cfg.Equity.ParsedMethod()

	var progress *tui.Progress
	if cli.Progress {
		progress = tui.StartProgress(ctx, os.Stderr, method.String())
		opts = append(opts, equity.WithProgress(progress.Update))
	}

	report, err := equity.NewCalculator(opts...).Calculate(ctx, scenario, method)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return err
	}

	if cli.Output != "" {
		if err := fileutil.WriteJSON(cli.Output, protocol.NewEquityResult(report, scenario)); err != nil {
			return err
		}
		logger.Debug("Wrote result", "path", cli.Output)
	}

	if scenario.Stage() == equity.Preflop {
		h := scenario.Hero
		fmt.Printf("%s %s (%s)\n\n", tui.HeaderStyle.Render("hero"),
			poker.StartingNotation(h[0], h[1]), poker.ClassifyStarting(h[0], h[1]))
	}
	return tui.RenderReport(os.Stdout, report, scenario, tui.ReportOptions{
		Possibilities: cli.Possibilities,
		Interval:      true,
	})
}

func applyOverrides(cfg *config.Config, cli CLI) {
	if cli.Method != "" {
		cfg.Equity.Method = cli.Method
	}
	if cli.Iterations != 0 {
		cfg.Equity.Iterations = cli.Iterations
	}
	if cli.Seed != nil {
		cfg.Equity.Seed = *cli.Seed
	}
	if cli.Workers != 0 {
		cfg.Equity.Workers = cli.Workers
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
}

// parseHands parses the hero's hand followed by each opponent.
func parseHands(handStrings []string) ([2]poker.Card, []equity.Seat, error) {
	if len(handStrings) == 0 {
		return [2]poker.Card{}, nil, fmt.Errorf("no hands given")
	}
	hero, err := poker.ParseHole(strings.TrimSpace(handStrings[0]))
	if err != nil {
		return [2]poker.Card{}, nil, fmt.Errorf("hand 1: %w", err)
	}

	opponents := make([]equity.Seat, 0, len(handStrings)-1)
	for i, s := range handStrings[1:] {
		seat, err := equity.ParseSeat(s)
		if err != nil {
			return [2]poker.Card{}, nil, fmt.Errorf("hand %d: %w", i+2, err)
		}
		opponents = append(opponents, seat)
	}
	// A lone hero plays one random opponent.
	if len(opponents) == 0 {
		opponents = append(opponents, equity.Random())
	}
	return hero, opponents, nil
}

// parseScenario builds and validates a scenario from command line strings.
func parseScenario(hands []string, board, dead string) (equity.Scenario, error) {
	hero, opponents, err := parseHands(hands)
	if err != nil {
		return equity.Scenario{}, err
	}
	s := equity.Scenario{Hero: hero, Opponents: opponents}
	if s.Board, err = poker.ParseBoard(board); err != nil {
		return s, fmt.Errorf("board: %w", err)
	}
	if s.Dead, err = poker.ParseCards(dead); err != nil {
		return s, fmt.Errorf("dead cards: %w", err)
	}
	return s, s.Validate()
}
