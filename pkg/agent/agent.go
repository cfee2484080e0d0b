package agent

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/operator-framework/sweeper/pkg/grid"
	"github.com/operator-framework/sweeper/pkg/metrics"
	"github.com/operator-framework/sweeper/pkg/solver"
)

// Agent plays a single board. It owns the knowledge base describing
// everything it has learned about the board and decides moves by
// asking the oracle which tiles that knowledge forces.
//
// An Agent is not safe for concurrent use.
type Agent struct {
	board    Board
	kb       *solver.KnowledgeBase
	registry *solver.Registry
	engine   *solver.Engine

	// undetermined holds tiles next to an opened cell whose status is
	// not yet forced. resolved holds tiles the agent has acted on or
	// seen opened, with their final verdict. No position is in both.
	undetermined sets.Set[grid.Position]
	resolved     map[grid.Position]solver.Verdict
	found        int
	turn         int

	log     logrus.FieldLogger
	tracer  solver.Tracer
	workers int
}

type Option func(a *Agent) error

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Agent) error {
		a.log = log
		return nil
	}
}

// WithTracer sets a Tracer that observes every oracle query.
func WithTracer(t solver.Tracer) Option {
	return func(a *Agent) error {
		a.tracer = t
		return nil
	}
}

// WithWorkers sets how many frontier tiles may be classified at once.
func WithWorkers(n int) Option {
	return func(a *Agent) error {
		if n < 1 {
			return errors.Errorf("workers must be at least 1, got %d", n)
		}
		a.workers = n
		return nil
	}
}

var defaults = []Option{
	func(a *Agent) error {
		if a.log == nil {
			logger := logrus.New()
			logger.SetOutput(io.Discard)
			a.log = logger
		}
		return nil
	},
	func(a *Agent) error {
		if a.tracer == nil {
			a.tracer = solver.DefaultTracer{}
		}
		return nil
	},
	func(a *Agent) error {
		if a.workers == 0 {
			a.workers = 1
		}
		return nil
	},
}

// New returns an Agent for board. One variable is allocated for every
// tile of the board up front.
func New(board Board, oracle solver.Oracle, options ...Option) (*Agent, error) {
	if board == nil {
		return nil, errors.New("nil board")
	}
	if board.Size() < 1 {
		return nil, errors.Errorf("invalid board size %d", board.Size())
	}

	a := Agent{
		board:        board,
		kb:           solver.NewKnowledgeBase(),
		undetermined: sets.New[grid.Position](),
		resolved:     make(map[grid.Position]solver.Verdict),
	}
	for _, option := range append(options, defaults...) {
		if err := option(&a); err != nil {
			return nil, err
		}
	}
	a.registry = solver.NewRegistry(board.Size(), a.kb)

	engine, err := solver.NewEngine(a.kb, oracle,
		solver.WithTracer(a.tracer),
		solver.WithWorkers(a.workers),
		solver.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return &a, nil
}

// TurnResult describes what a single turn did.
type TurnResult struct {
	Observations int
	Marked       []grid.Position
	Probed       []grid.Position
	Completed    bool
}

// Progress reports whether the turn consumed an observation or issued
// a move.
func (r TurnResult) Progress() bool {
	return r.Observations > 0 || len(r.Marked) > 0 || len(r.Probed) > 0 || r.Completed
}

// Turn ingests the board's new observations and then acts on every
// frontier tile whose status they force.
//
// If the board's bomb total is known and every bomb has been marked,
// Turn instead probes all remaining tiles and reports completion.
func (a *Agent) Turn(ctx context.Context) (TurnResult, error) {
	a.turn++
	log := a.log.WithField("turn", a.turn)
	metrics.EmitTurn()

	var result TurnResult
	observations := a.board.OpenCells()
	result.Observations = len(observations)
	if err := a.ingest(observations); err != nil {
		return result, err
	}
	metrics.SetKnowledgeClauses(a.kb.Len())

	if len(observations) > 0 {
		consistent, err := a.engine.Consistent(ctx)
		if err != nil {
			return result, err
		}
		if !consistent {
			return result, &solver.InconsistentKnowledge{}
		}
	}

	if total, ok := a.board.BombCount(); ok && a.found >= total {
		probed, err := a.clear()
		if err != nil {
			return result, err
		}
		result.Probed = probed
		result.Completed = true
		log.WithFields(logrus.Fields{
			"found":  a.found,
			"probed": len(probed),
		}).Info("all bombs found")
		return result, nil
	}

	pending := grid.Sort(a.undetermined.UnsortedList())
	verdicts, err := a.engine.ClassifyAll(ctx, a.registry.VariablesOf(pending))
	if err != nil {
		return result, err
	}
	for i, p := range pending {
		switch verdicts[i] {
		case solver.HasBomb:
			if err := a.mark(p); err != nil {
				return result, err
			}
			result.Marked = append(result.Marked, p)
		case solver.NoBomb:
			if err := a.probe(p); err != nil {
				return result, err
			}
			result.Probed = append(result.Probed, p)
		}
	}
	metrics.SetKnowledgeClauses(a.kb.Len())

	log.WithFields(logrus.Fields{
		"observations": result.Observations,
		"marked":       len(result.Marked),
		"probed":       len(result.Probed),
		"undetermined": a.undetermined.Len(),
		"clauses":      a.kb.Len(),
	}).Debug("turn finished")
	return result, nil
}

// ingest turns each observation into clauses. The opened tile is known
// to be safe, and exactly Count of its undiscovered neighbors hold a
// bomb.
func (a *Agent) ingest(observations []grid.Observation) error {
	for _, o := range observations {
		if verdict, ok := a.resolved[o.Position]; ok && verdict == solver.HasBomb {
			return &BoardContradiction{Observation: o, Reason: "tile was marked as a bomb"}
		}
		v := a.registry.VariableOf(o.Position)
		if err := a.kb.Assert(solver.Clause{v.Not()}); err != nil {
			return errors.Wrapf(err, "asserting %s is safe", o.Position)
		}
		a.undetermined.Delete(o.Position)
		a.resolved[o.Position] = solver.NoBomb

		neighbors := a.board.UnknownAdjacent(o.Position)
		if o.Count > 0 && len(neighbors) == 0 {
			return &BoardContradiction{Observation: o, Reason: "bombs reported but no unknown neighbors"}
		}
		cs, err := solver.Exactly(o.Count, a.registry.VariablesOf(neighbors)...)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", o)
		}
		if err := a.kb.AssertAll(cs); err != nil {
			return errors.Wrapf(err, "encoding %s", o)
		}

		for _, n := range neighbors {
			if a.board.IsMarked(n) {
				continue
			}
			if _, ok := a.resolved[n]; ok {
				continue
			}
			a.undetermined.Insert(n)
		}
		a.log.WithFields(logrus.Fields{
			"row":       o.Row,
			"col":       o.Col,
			"count":     o.Count,
			"neighbors": len(neighbors),
			"clauses":   len(cs),
		}).Debug("observed")
	}
	return nil
}

// clear probes every undiscovered tile that is neither marked nor
// already acted on.
func (a *Agent) clear() ([]grid.Position, error) {
	var probed []grid.Position
	for _, p := range grid.Sort(a.board.Unknowns()) {
		if a.board.IsMarked(p) {
			continue
		}
		if _, ok := a.resolved[p]; ok {
			continue
		}
		v := a.registry.VariableOf(p)
		value, ok := a.kb.Fixed(v)
		if ok && value {
			return probed, &solver.InconsistentKnowledge{Variable: v}
		}
		if !ok {
			if err := a.kb.Assert(solver.Clause{v.Not()}); err != nil {
				return probed, err
			}
		}
		if err := a.probe(p); err != nil {
			return probed, err
		}
		probed = append(probed, p)
	}
	return probed, nil
}

func (a *Agent) mark(p grid.Position) error {
	if err := a.board.Mark(p); err != nil {
		return errors.Wrapf(err, "marking %s", p)
	}
	a.found++
	a.resolve(p, solver.HasBomb)
	metrics.EmitMark()
	return nil
}

func (a *Agent) probe(p grid.Position) error {
	if err := a.board.Probe(p); err != nil {
		return errors.Wrapf(err, "probing %s", p)
	}
	a.resolve(p, solver.NoBomb)
	metrics.EmitProbe()
	return nil
}

func (a *Agent) resolve(p grid.Position, verdict solver.Verdict) {
	a.undetermined.Delete(p)
	a.resolved[p] = verdict
	a.log.WithFields(logrus.Fields{
		"row":     p.Row,
		"col":     p.Col,
		"verdict": verdict,
	}).Debug("resolved")
}

// Verdict returns the verdict the agent acted on for p, if any.
func (a *Agent) Verdict(p grid.Position) (solver.Verdict, bool) {
	verdict, ok := a.resolved[p]
	return verdict, ok
}

// Classify returns what the current knowledge forces for p. Resolved
// positions are answered from memory without querying the oracle.
func (a *Agent) Classify(ctx context.Context, p grid.Position) (solver.Verdict, error) {
	if verdict, ok := a.resolved[p]; ok {
		return verdict, nil
	}
	return a.engine.Classify(ctx, a.registry.VariableOf(p))
}

// Undetermined returns the frontier tiles that are still open,
// row-major.
func (a *Agent) Undetermined() []grid.Position {
	return grid.Sort(a.undetermined.UnsortedList())
}

// Found returns the number of bombs the agent has marked.
func (a *Agent) Found() int {
	return a.found
}

// KnowledgeBase returns the agent's knowledge base. It must not be
// asserted into by the caller.
func (a *Agent) KnowledgeBase() *solver.KnowledgeBase {
	return a.kb
}
