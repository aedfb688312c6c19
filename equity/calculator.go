package equity

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerodds/internal/randutil"
	"github.com/lox/pokerodds/poker"
)

const (
	// DefaultIterations is the Monte Carlo sample count when none is configured.
	DefaultIterations = 100_000
	// DefaultMaxTrials caps exact enumeration. It admits one random opponent
	// preflop (about 2.1 billion showdowns).
	DefaultMaxTrials = 1 << 32
	// MonteCarloChunk is how many samples share one generator. Chunks are the
	// unit of work handed to workers.
	MonteCarloChunk = 1 << 15
)

// Method selects how a Calculator answers a scenario.
type Method uint8

const (
	// Auto enumerates exactly when that takes no more showdowns than the
	// configured Monte Carlo iterations, and samples otherwise.
	Auto Method = iota
	MethodExact
	MethodMonteCarlo
)

func (m Method) String() string {
	switch m {
	case MethodExact:
		return "exact"
	case MethodMonteCarlo:
		return "monte-carlo"
	default:
		return "auto"
	}
}

// ParseMethod accepts "auto", "exact", "monte-carlo" or "mc".
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "exact":
		return MethodExact, nil
	case "monte-carlo", "montecarlo", "mc":
		return MethodMonteCarlo, nil
	default:
		return Auto, fmt.Errorf("unknown method %q", s)
	}
}

// ProgressFunc receives the number of showdowns completed so far and the
// number expected. Calls are serialised.
type ProgressFunc func(done, total uint64)

// Calculator runs equity calculations across several workers.
type Calculator struct {
	workers    int
	iterations uint64
	seed       uint64
	maxTrials  uint64
	logger     *log.Logger
	clock      quartz.Clock
	progress   ProgressFunc
	ev         *poker.Evaluator
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithWorkers sets the number of parallel workers. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithIterations sets the Monte Carlo sample count.
func WithIterations(n uint64) Option {
	return func(c *Calculator) {
		c.iterations = n
	}
}

// WithSeed sets the Monte Carlo seed.
func WithSeed(seed uint64) Option {
	return func(c *Calculator) {
		c.seed = seed
	}
}

// WithMaxTrials caps exact enumeration; zero removes the cap.
func WithMaxTrials(n uint64) Option {
	return func(c *Calculator) {
		c.maxTrials = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used to time calculations.
func WithClock(clock quartz.Clock) Option {
	return func(c *Calculator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Calculator) {
		c.progress = fn
	}
}

// WithEvaluator sets the evaluator workers share.
func WithEvaluator(ev *poker.Evaluator) Option {
	return func(c *Calculator) {
		if ev != nil {
			c.ev = ev
		}
	}
}

// NewCalculator creates a calculator. By default it uses one worker per
// available CPU, DefaultIterations samples, seed 0 and DefaultMaxTrials.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		workers:    runtime.GOMAXPROCS(0),
		iterations: DefaultIterations,
		maxTrials:  DefaultMaxTrials,
		logger:     log.New(io.Discard),
		clock:      quartz.NewReal(),
		ev:         poker.DefaultEvaluator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Report is a finished calculation.
type Report struct {
	Result
	Method   Method
	Stage    Stage
	Workers  int
	Duration time.Duration
}

// TrialsPerSecond is the showdown throughput, or zero if no time elapsed.
func (r *Report) TrialsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Trials) / r.Duration.Seconds()
}

// Calculate answers s with the given method.
func (c *Calculator) Calculate(ctx context.Context, s Scenario, m Method) (*Report, error) {
	switch m {
	case MethodExact:
		return c.Exact(ctx, s)
	case MethodMonteCarlo:
		return c.MonteCarlo(ctx, s)
	}

	// An invalid scenario counts zero and lets Exact report why. A complete
	// board is one showdown and is always answered exactly.
	if ScenarioCount(s) <= max(c.iterations, 1) {
		return c.Exact(ctx, s)
	}
	return c.MonteCarlo(ctx, s)
}

func (c *Calculator) withinLimit(count uint64) bool {
	return c.maxTrials == 0 || count <= c.maxTrials
}

// Exact enumerates s in parallel. The outermost loop is split between
// workers, so the result is identical to the single-threaded Exact whatever
// the worker count.
func (c *Calculator) Exact(ctx context.Context, s Scenario) (*Report, error) {
	p, err := newPlan(s, MinPlayers, c.ev)
	if err != nil {
		return nil, err
	}
	total := ScenarioCount(s)
	if !c.withinLimit(total) {
		return nil, fmt.Errorf("%w: %d showdowns exceeds limit of %d", ErrTooManyTrials, total, c.maxTrials)
	}

	workers := c.workers
	if outer := p.outerWidth(); workers > outer {
		workers = max(outer, 1)
	}

	return c.run(ctx, s, MethodExact, workers, workers, total, func(w int, h hook) (Result, bool) {
		shard := func(i int) bool { return i%workers == w }
		return p.enumerate(walker{}, shard, h)
	})
}

// MonteCarlo samples s in parallel. Iterations are cut into chunks of
// MonteCarloChunk, chunk i seeded with randutil.ChunkSeed(seed, i), and
// workers take chunks in turn. The result depends only on the seed and the
// iteration count, never on the worker count, and a run of a single chunk
// equals MonteCarlo(s, iterations, seed).
func (c *Calculator) MonteCarlo(ctx context.Context, s Scenario) (*Report, error) {
	p, err := newPlan(s, MinPlayers, c.ev)
	if err != nil {
		return nil, err
	}

	chunks := int(c.iterations / MonteCarloChunk)
	if c.iterations%MonteCarloChunk != 0 {
		chunks++
	}
	workers := max(min(c.workers, chunks), 1)

	return c.run(ctx, s, MethodMonteCarlo, workers, chunks, c.iterations, func(i int, h hook) (Result, bool) {
		n := min(uint64(MonteCarloChunk), c.iterations-uint64(i)*MonteCarloChunk)
		return p.sample(n, randutil.ChunkSeed(c.seed, i), h)
	})
}

// run spreads tasks over workers, merges their tallies in task order and
// times the run.
func (c *Calculator) run(ctx context.Context, s Scenario, m Method, workers, tasks int, total uint64,
	work func(task int, h hook) (Result, bool)) (*Report, error) {

	start := c.clock.Now()
	c.logger.Debug("equity calculation started",
		"method", m, "stage", s.Stage(), "players", s.Players(), "workers", workers, "trials", total)

	var (
		mu   sync.Mutex
		done uint64
	)
	h := func(delta uint64) bool {
		mu.Lock()
		done += delta
		if c.progress != nil {
			c.progress(done, total)
		}
		mu.Unlock()
		return ctx.Err() == nil
	}

	results := make([]Result, tasks)
	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= tasks {
					return nil
				}
				res, ok := work(i, h)
				if !ok {
					return ctx.Err()
				}
				results[i] = res
			}
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Debug("equity calculation cancelled", "err", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Result:  newResult(s.Players()),
		Method:  m,
		Stage:   s.Stage(),
		Workers: workers,
	}
	for _, res := range results {
		report.merge(res)
	}
	report.Duration = c.clock.Since(start)

	c.logger.Debug("equity calculation finished",
		"method", m, "trials", report.Trials, "duration", report.Duration, "hero_equity", report.Hero().Equity())
	return report, nil
}

// outerWidth is the number of indices the outermost enumeration loop visits,
// which bounds how many shards can do useful work.
func (p *plan) outerWidth() int {
	if len(p.randomSeats) == 0 && p.missing == 0 {
		return 1
	}
	return len(p.unseen)
}
