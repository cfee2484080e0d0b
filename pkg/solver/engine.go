package solver

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Engine answers entailment questions about single variables of a
// KnowledgeBase. Every fact it proves is asserted back into the
// knowledge base as a unit clause, so it never has to be proven again.
type Engine struct {
	kb      *KnowledgeBase
	oracle  Oracle
	tracer  Tracer
	workers int
	log     logrus.FieldLogger

	traceMu sync.Mutex
}

type EngineOption func(e *Engine) error

// WithTracer sets a Tracer that observes every oracle call.
func WithTracer(t Tracer) EngineOption {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

// WithWorkers sets how many variables ClassifyAll may query at once.
// Values above one require an Oracle that is safe for concurrent use.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) error {
		if n < 1 {
			return errors.Errorf("workers must be at least 1, got %d", n)
		}
		e.workers = n
		return nil
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(e *Engine) error {
		e.log = log
		return nil
	}
}

var engineDefaults = []EngineOption{
	func(e *Engine) error {
		if e.tracer == nil {
			e.tracer = DefaultTracer{}
		}
		return nil
	},
	func(e *Engine) error {
		if e.workers == 0 {
			e.workers = 1
		}
		return nil
	},
	func(e *Engine) error {
		if e.log == nil {
			e.log = discardLogger()
		}
		return nil
	},
}

func NewEngine(kb *KnowledgeBase, oracle Oracle, options ...EngineOption) (*Engine, error) {
	if kb == nil {
		return nil, errors.New("nil knowledge base")
	}
	if oracle == nil {
		return nil, errors.New("nil oracle")
	}
	e := Engine{kb: kb, oracle: oracle}
	for _, option := range append(options, engineDefaults...) {
		if err := option(&e); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// KnowledgeBase returns the knowledge base the engine queries.
func (e *Engine) KnowledgeBase() *KnowledgeBase {
	return e.kb
}

// Consistent reports whether the knowledge base has any model at all.
func (e *Engine) Consistent(ctx context.Context) (bool, error) {
	return e.oracle.IsSatisfiable(ctx, e.kb)
}

// ForcedTrue reports whether every model of the knowledge base makes
// v true, by refuting ¬v.
func (e *Engine) ForcedTrue(ctx context.Context, v Variable) (bool, error) {
	return e.refutes(ctx, v, v.Not())
}

// ForcedFalse reports whether every model of the knowledge base makes
// v false, by refuting v.
func (e *Engine) ForcedFalse(ctx context.Context, v Variable) (bool, error) {
	return e.refutes(ctx, v, v.Literal())
}

func (e *Engine) refutes(ctx context.Context, v Variable, m Literal) (bool, error) {
	sat, err := e.oracle.IsSatisfiable(ctx, e.kb, m)
	if err != nil {
		return false, errors.Wrapf(err, "querying variable %d", v)
	}
	e.traceMu.Lock()
	e.tracer.Trace(Query{Variable: v, Assumptions: []Literal{m}, Satisfiable: sat})
	e.traceMu.Unlock()
	return !sat, nil
}

// Classify decides whether v is forced true, forced false, or left
// open by the knowledge base. Forced results are asserted as unit
// clauses. A variable already fixed by a unit clause is answered
// without consulting the oracle; any other variable costs two oracle
// calls, and *InconsistentKnowledge is returned if both of them are
// refuted.
func (e *Engine) Classify(ctx context.Context, v Variable) (Verdict, error) {
	if verdict, ok := e.fixed(v); ok {
		return verdict, nil
	}
	verdict, err := e.query(ctx, v)
	if err != nil {
		return Unknown, err
	}
	return verdict, e.pin(v, verdict)
}

// ClassifyAll classifies each of vs and returns the verdicts in the
// same order. All queries run against the knowledge base as it stands
// on entry; derived unit clauses are asserted afterwards. Because those
// clauses are entailed, the verdicts equal those of calling Classify
// on each variable in turn.
func (e *Engine) ClassifyAll(ctx context.Context, vs []Variable) ([]Verdict, error) {
	verdicts := make([]Verdict, len(vs))
	var pending []int
	for i, v := range vs {
		if verdict, ok := e.fixed(v); ok {
			verdicts[i] = verdict
			continue
		}
		pending = append(pending, i)
	}

	if e.workers == 1 || len(pending) < 2 {
		for _, i := range pending {
			verdict, err := e.Classify(ctx, vs[i])
			if err != nil {
				return nil, err
			}
			verdicts[i] = verdict
		}
		return verdicts, nil
	}

	errs := make([]error, len(vs))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, i := range pending {
		i := i
		g.Go(func() error {
			verdicts[i], errs[i] = e.query(ctx, vs[i])
			return nil
		})
	}
	g.Wait()
	for _, err := range errs {
		var inconsistent *InconsistentKnowledge
		if errors.As(err, &inconsistent) {
			return nil, err
		}
	}
	if err := utilerrors.Reduce(utilerrors.NewAggregate(errs)); err != nil {
		return nil, err
	}

	for _, i := range pending {
		if err := e.pin(vs[i], verdicts[i]); err != nil {
			return nil, err
		}
	}
	e.log.WithFields(logrus.Fields{
		"queried": len(pending),
		"workers": e.workers,
	}).Debug("classified batch")
	return verdicts, nil
}

// query asks the oracle about v. A variable refuted both ways means
// the knowledge base has no model at all.
func (e *Engine) query(ctx context.Context, v Variable) (Verdict, error) {
	forcedTrue, err := e.ForcedTrue(ctx, v)
	if err != nil {
		return Unknown, err
	}
	forcedFalse, err := e.ForcedFalse(ctx, v)
	if err != nil {
		return Unknown, err
	}
	switch {
	case forcedTrue && forcedFalse:
		return Unknown, &InconsistentKnowledge{Variable: v}
	case forcedTrue:
		return HasBomb, nil
	case forcedFalse:
		return NoBomb, nil
	default:
		return Unknown, nil
	}
}

func (e *Engine) fixed(v Variable) (Verdict, bool) {
	value, ok := e.kb.Fixed(v)
	switch {
	case !ok:
		return Unknown, false
	case value:
		return HasBomb, true
	default:
		return NoBomb, true
	}
}

func (e *Engine) pin(v Variable, verdict Verdict) error {
	var m Literal
	switch verdict {
	case HasBomb:
		m = v.Literal()
	case NoBomb:
		m = v.Not()
	default:
		return nil
	}
	if value, ok := e.kb.Fixed(v); ok && value != m.IsPositive() {
		return &InconsistentKnowledge{Variable: v}
	}
	e.log.WithFields(logrus.Fields{
		"variable": v,
		"verdict":  verdict,
	}).Debug("pinned")
	return e.kb.Assert(Clause{m})
}
