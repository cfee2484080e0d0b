package solver

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyClause is returned when an empty clause is asserted. An
// empty clause can never be satisfied, so seeing one means the
// encoding itself is broken.
var ErrEmptyClause = errors.New("empty clauses are unsatisfiable")

// InvalidConstraint is returned by the cardinality encoder when asked
// for more true variables than it was given.
type InvalidConstraint struct {
	K int
	N int
}

func (e *InvalidConstraint) Error() string {
	return fmt.Sprintf("invalid cardinality constraint: %d of %d variables", e.K, e.N)
}

// InvalidLiteral is returned when a clause references a variable that
// was never allocated.
type InvalidLiteral struct {
	Literal   Literal
	Variables int
}

func (e *InvalidLiteral) Error() string {
	return fmt.Sprintf("literal %d out of range 1..%d", e.Literal, e.Variables)
}

// OracleUnavailable is returned when the satisfiability backend cannot
// be started at all.
type OracleUnavailable struct {
	Backend string
	Err     error
}

func (e *OracleUnavailable) Error() string {
	return fmt.Sprintf("oracle %s unavailable: %v", e.Backend, e.Err)
}

func (e *OracleUnavailable) Unwrap() error {
	return e.Err
}

// OracleError is returned when a backend ran but did not produce a
// SAT or UNSAT verdict.
type OracleError struct {
	Backend string
	Reason  string
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s failed: %s", e.Backend, e.Reason)
}

// InconsistentKnowledge is returned when the knowledge base has no
// model. Variable is set when the conflict was found while pinning a
// single variable.
type InconsistentKnowledge struct {
	Variable Variable
}

func (e *InconsistentKnowledge) Error() string {
	if e.Variable == 0 {
		return "knowledge base is inconsistent: no assignment satisfies it"
	}
	return fmt.Sprintf("knowledge base is inconsistent: variable %d can be neither true nor false", e.Variable)
}
