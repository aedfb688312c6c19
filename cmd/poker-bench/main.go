package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/internal/logging"
	"github.com/lox/pokerodds/internal/randutil"
	"github.com/lox/pokerodds/poker"
)

type CLI struct {
	Hands      int    `kong:"default='1000000',help='Number of hands to evaluate per hand size'"`
	Iterations uint64 `kong:"default='1000000',help='Monte Carlo iterations per equity scenario'"`
	Workers    int    `kong:"default='0',help='Equity workers (0 for one per CPU)'"`
	Seed       uint64 `kong:"default='1',help='Seed for generated hands and sampling'"`
	SkipEval   bool   `kong:"help='Skip the hand evaluation benchmark'"`
	SkipEquity bool   `kong:"help='Skip the equity benchmark'"`
	Quiet      bool   `kong:"help='Hide progress bars'"`
	Debug      bool   `kong:"default='false',help='Show debug logs'"`
}

// benchScenario is one equity workload.
type benchScenario struct {
	name   string
	hero   string
	opps   []string
	board  string
	method equity.Method
}

var scenarios = []benchScenario{
	{"AA vs KK preflop", "AsAh", []string{"KsKh"}, "", equity.MethodExact},
	{"AKs vs random flop", "AhKh", []string{"??"}, "Qh7h2c", equity.MethodExact},
	{"AKs vs random preflop", "AhKh", []string{"??"}, "", equity.MethodMonteCarlo},
	{"three-way turn", "JcJd", []string{"AsKs", "??"}, "Ts9s2h4c", equity.MethodExact},
	{"nine-handed preflop", "7h2d", []string{"??", "??", "??", "??", "??", "??", "??", "??"}, "", equity.MethodMonteCarlo},
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("poker-bench"),
		kong.Description("Throughput benchmark for the hand evaluator and equity calculator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level := "warn"
	if cli.Debug {
		level = "debug"
	}
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressOut := io.Writer(os.Stderr)
	if cli.Quiet {
		progressOut = io.Discard
	}

	fmt.Printf("Poker Odds Benchmark\n\n")

	if !cli.SkipEval {
		for size := 5; size <= 7; size++ {
			if ctx.Err() != nil {
				break
			}
			r := benchEvaluate(ctx, progressOut, size, cli.Hands, cli.Seed)
			fmt.Printf("  eval%d: %s hands in %v (%s hands/s, checksum %08x)\n", size,
				humanize.Comma(int64(r.hands)), r.elapsed.Truncate(time.Millisecond),
				humanize.Comma(int64(r.rate())), r.checksum)
		}
		fmt.Println()
	}

	if !cli.SkipEquity {
		for _, sc := range scenarios {
			if ctx.Err() != nil {
				break
			}
			report, err := benchEquity(ctx, progressOut, logger, sc, cli)
			if err != nil {
				fmt.Printf("  %s: %v\n", sc.name, err)
				continue
			}
			fmt.Printf("  %s: equity %.2f%%, %s showdowns (%s) in %v, %s showdowns/s\n", sc.name,
				report.Hero().Equity()*100, humanize.Comma(int64(report.Trials)), report.Method,
				report.Duration.Truncate(time.Millisecond), humanize.Comma(int64(report.TrialsPerSecond())))
		}
	}

	if ctx.Err() != nil {
		fmt.Println("\nInterrupted")
	}
}

type evalResult struct {
	hands    int
	elapsed  time.Duration
	checksum uint32
}

func (r evalResult) rate() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.hands) / r.elapsed.Seconds()
}

// randomBoards deals n boards of size distinct cards each.
func randomBoards(n, size int, seed uint64) []poker.BitBoard {
	deck := poker.NewDeck(randutil.New(int64(seed)))
	boards := make([]poker.BitBoard, n)
	for i := range boards {
		deck.Reset()
		for _, c := range deck.Deal(size) {
			boards[i].Set(c)
		}
	}
	return boards
}

const evalChunk = 1 << 14

func benchEvaluate(ctx context.Context, out io.Writer, size, hands int, seed uint64) evalResult {
	boards := randomBoards(hands, size, seed)
	ev := poker.DefaultEvaluator()

	bar := progressbar.NewOptions64(int64(hands),
		progressbar.OptionSetDescription(fmt.Sprintf("eval%d", size)),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	var r evalResult
	start := time.Now()
	for lo := 0; lo < len(boards); lo += evalChunk {
		if ctx.Err() != nil {
			break
		}
		hi := min(lo+evalChunk, len(boards))
		r.checksum += ev.SumScores(boards[lo:hi])
		r.hands += hi - lo
		_ = bar.Add(hi - lo)
	}
	r.elapsed = time.Since(start)
	_ = bar.Finish()
	return r
}

func benchEquity(ctx context.Context, out io.Writer, logger *log.Logger, sc benchScenario, cli CLI) (*equity.Report, error) {
	s, err := sc.scenario()
	if err != nil {
		return nil, err
	}

	total := cli.Iterations
	if sc.method == equity.MethodExact {
		total = equity.ScenarioCount(s)
	}
	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetDescription(sc.name),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()

	calc := equity.NewCalculator(
		equity.WithWorkers(cli.Workers),
		equity.WithIterations(cli.Iterations),
		equity.WithSeed(cli.Seed),
		equity.WithLogger(logger),
		equity.WithProgress(func(done, _ uint64) {
			_ = bar.Set64(int64(done))
		}),
	)
	return calc.Calculate(ctx, s, sc.method)
}

func (b benchScenario) scenario() (equity.Scenario, error) {
	var s equity.Scenario
	hero, err := poker.ParseHole(b.hero)
	if err != nil {
		return s, err
	}
	s.Hero = hero
	for _, o := range b.opps {
		seat, err := equity.ParseSeat(o)
		if err != nil {
			return s, err
		}
		s.Opponents = append(s.Opponents, seat)
	}
	if s.Board, err = poker.ParseBoard(b.board); err != nil {
		return s, err
	}
	return s, s.Validate()
}
