package solver

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// pollInterval bounds how long a cancelled context can go unnoticed
// while gini is searching in the background.
const pollInterval = 5 * time.Millisecond

// giniOracle keeps one incremental gini instance per knowledge base.
// Only clauses asserted since the previous call are taught to the
// solver, and query literals are passed as assumptions, which gini
// forgets after each Solve. A giniOracle must not be used from more
// than one goroutine at a time; NewOracle hands it out Synchronized.
type giniOracle struct {
	g      *gini.Gini
	kb     *KnowledgeBase
	synced int
	log    logrus.FieldLogger
}

var _ Oracle = &giniOracle{}

func newGiniOracle(log logrus.FieldLogger) *giniOracle {
	return &giniOracle{log: log}
}

func (o *giniOracle) IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error) {
	if o.kb != kb {
		o.g = gini.NewV(kb.Variables())
		o.kb = kb
		o.synced = 0
	}
	added := kb.ClausesSince(o.synced)
	for _, c := range added {
		for _, m := range c {
			o.g.Add(m.lit())
		}
		o.g.Add(z.LitNull)
	}
	o.synced += len(added)

	for _, m := range assumptions {
		o.g.Assume(m.lit())
	}

	switch res := o.solve(ctx); res {
	case satisfiable:
		return true, nil
	case unsatisfiable:
		return false, nil
	default:
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return false, &OracleError{Backend: BackendGini, Reason: "solve returned no verdict"}
	}
}

func (o *giniOracle) solve(ctx context.Context) int {
	if ctx.Done() == nil {
		return o.g.Solve()
	}
	s := o.g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if res, done := s.Test(); done {
			return res
		}
		select {
		case <-ctx.Done():
			o.log.WithError(ctx.Err()).Debug("stopping gini")
			return s.Stop()
		case <-ticker.C:
		}
	}
}
