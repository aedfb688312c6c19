package equity

import (
	"github.com/lox/pokerodds/poker"
)

// hookEvery is how many showdowns pass between hook calls.
const hookEvery = 1 << 12

// hook is called every hookEvery showdowns with the number completed since
// the previous call. Returning false stops the run.
type hook func(delta uint64) bool

// plan is a validated scenario laid out for the engines: the known board,
// each seat's hole cards as a bitboard (random seats left empty) and the
// cards still available to deal.
type plan struct {
	ev          *poker.Evaluator
	board       poker.BitBoard
	holes       []poker.BitBoard
	randomSeats []int
	missing     int
	unseen      []poker.Card
}

func newPlan(s Scenario, minPlayers int, ev *poker.Evaluator) (*plan, error) {
	used, err := s.validate(minPlayers)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		ev = poker.DefaultEvaluator()
	}

	p := &plan{
		ev:      ev,
		holes:   make([]poker.BitBoard, s.Players()),
		missing: s.Missing(),
		unseen:  used.Complement().Cards(),
	}
	for _, c := range s.Board {
		p.board.Set(c)
	}
	p.holes[0].Set(s.Hero[0])
	p.holes[0].Set(s.Hero[1])
	for i, o := range s.Opponents {
		if o.Random {
			p.randomSeats = append(p.randomSeats, i+1)
			continue
		}
		p.holes[i+1].Set(o.Hole[0])
		p.holes[i+1].Set(o.Hole[1])
	}
	return p, nil
}

// table is one engine run's mutable state. Each worker owns its own.
type table struct {
	ev      *poker.Evaluator
	holes   []poker.BitBoard
	scores  []poker.Score
	res     Result
	pending uint64
	hook    hook
	stopped bool
}

func (p *plan) newTable(h hook) *table {
	t := &table{
		ev:     p.ev,
		holes:  make([]poker.BitBoard, len(p.holes)),
		scores: make([]poker.Score, len(p.holes)),
		res:    newResult(len(p.holes)),
		hook:   h,
	}
	copy(t.holes, p.holes)
	return t
}

// showdown scores every seat against the complete board and records the
// outcome. It returns false once the hook has asked to stop.
func (t *table) showdown(board poker.BitBoard) bool {
	for i, h := range t.holes {
		t.scores[i] = t.ev.Evaluate(h.Union(board))
	}
	t.res.record(t.scores)

	if t.hook == nil {
		return true
	}
	t.pending++
	if t.pending == hookEvery {
		t.pending = 0
		if !t.hook(hookEvery) {
			t.stopped = true
			return false
		}
	}
	return true
}

// finish reports any showdowns the hook has not yet seen.
func (t *table) finish() {
	if t.hook != nil && t.pending > 0 && !t.stopped {
		if !t.hook(t.pending) {
			t.stopped = true
		}
		t.pending = 0
	}
}

// seat replaces a random seat's hole cards.
func (t *table) seat(i int, a, b poker.Card) {
	var h poker.BitBoard
	h.Set(a)
	h.Set(b)
	t.holes[i] = h
}
