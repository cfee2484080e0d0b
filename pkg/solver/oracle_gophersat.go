package solver

import (
	"context"

	gophersat "github.com/crillab/gophersat/solver"
	"github.com/sirupsen/logrus"
)

// gophersatOracle builds a fresh gophersat problem for every query.
// gophersat shares a package-level buffer between all solvers while
// learning clauses, so two queries must never run at the same time,
// even on separate problems. NewOracle hands it out Synchronized.
type gophersatOracle struct {
	log logrus.FieldLogger
}

var _ Oracle = &gophersatOracle{}

func newGophersatOracle(log logrus.FieldLogger) *gophersatOracle {
	return &gophersatOracle{log: log}
}

func (o *gophersatOracle) IsSatisfiable(ctx context.Context, kb *KnowledgeBase, assumptions ...Literal) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	cnf := make([][]int, 0, kb.Len()+len(assumptions))
	for _, c := range kb.Clauses() {
		cnf = append(cnf, c.Ints())
	}
	for _, m := range assumptions {
		cnf = append(cnf, []int{int(m)})
	}
	if len(cnf) == 0 {
		return true, nil
	}

	s := gophersat.New(gophersat.ParseSlice(cnf))
	switch status := s.Solve(); status {
	case gophersat.Sat:
		return true, nil
	case gophersat.Unsat:
		return false, nil
	default:
		o.log.WithField("status", status.String()).Debug("gophersat returned no verdict")
		return false, &OracleError{Backend: BackendGophersat, Reason: "status " + status.String()}
	}
}
