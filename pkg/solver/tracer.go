package solver

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Query records a single oracle call made while classifying a
// variable.
type Query struct {
	Variable    Variable
	Assumptions []Literal
	Satisfiable bool
}

type Tracer interface {
	Trace(q Query)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Query) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(q Query) {
	verdict := "unsat"
	if q.Satisfiable {
		verdict = "sat"
	}
	fmt.Fprintf(t.Writer, "---\nVariable: %d\nAssumptions: %v\nResult: %s\n", q.Variable, q.Assumptions, verdict)
}

// LogrusTracer reports each query at debug level.
type LogrusTracer struct {
	Logger logrus.FieldLogger
}

func (t LogrusTracer) Trace(q Query) {
	t.Logger.WithFields(logrus.Fields{
		"variable":    q.Variable,
		"assumptions": q.Assumptions,
		"satisfiable": q.Satisfiable,
	}).Debug("oracle query")
}
