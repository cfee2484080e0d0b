package solver

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// KnowledgeBase is an append-only CNF formula. Clauses are never
// removed or rewritten; new facts only ever narrow the set of models.
//
// A KnowledgeBase is not safe for concurrent mutation. Concurrent
// readers are fine as long as nothing asserts at the same time.
type KnowledgeBase struct {
	variables int
	clauses   []Clause
	units     map[Variable]bool
}

var _ Allocator = &KnowledgeBase{}

// NewKnowledgeBase returns an empty knowledge base with no variables.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		units: make(map[Variable]bool),
	}
}

// NewVariable allocates a fresh variable.
func (kb *KnowledgeBase) NewVariable() Variable {
	kb.variables++
	return Variable(kb.variables)
}

// Variables returns the number of allocated variables.
func (kb *KnowledgeBase) Variables() int {
	return kb.variables
}

// Len returns the number of asserted clauses.
func (kb *KnowledgeBase) Len() int {
	return len(kb.clauses)
}

// Assert appends c to the formula.
func (kb *KnowledgeBase) Assert(c Clause) error {
	if len(c) == 0 {
		return ErrEmptyClause
	}
	for _, m := range c {
		if m == 0 || int(m.Var()) > kb.variables {
			return &InvalidLiteral{Literal: m, Variables: kb.variables}
		}
	}
	clause := make(Clause, len(c))
	copy(clause, c)
	kb.clauses = append(kb.clauses, clause)
	if len(clause) == 1 {
		if _, ok := kb.units[clause[0].Var()]; !ok {
			kb.units[clause[0].Var()] = clause[0].IsPositive()
		}
	}
	return nil
}

// AssertAll asserts each clause in order, stopping at the first
// failure.
func (kb *KnowledgeBase) AssertAll(cs []Clause) error {
	for _, c := range cs {
		if err := kb.Assert(c); err != nil {
			return errors.Wrapf(err, "asserting %s", c)
		}
	}
	return nil
}

// Fixed reports the value of v if a unit clause for v has been
// asserted.
func (kb *KnowledgeBase) Fixed(v Variable) (value bool, ok bool) {
	value, ok = kb.units[v]
	return
}

// Clauses returns the asserted clauses. The result must not be
// modified.
func (kb *KnowledgeBase) Clauses() []Clause {
	return kb.clauses
}

// ClausesSince returns the clauses asserted after the first offset
// clauses.
func (kb *KnowledgeBase) ClausesSince(offset int) []Clause {
	if offset >= len(kb.clauses) {
		return nil
	}
	return kb.clauses[offset:]
}

// WriteDIMACS writes the formula in DIMACS CNF form. Each assumption
// is appended as an extra unit clause and counted in the header.
func (kb *KnowledgeBase) WriteDIMACS(w io.Writer, assumptions ...Literal) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("p cnf ")
	bw.WriteString(strconv.Itoa(kb.variables))
	bw.WriteByte(' ')
	bw.WriteString(strconv.Itoa(len(kb.clauses) + len(assumptions)))
	bw.WriteByte('\n')
	for _, c := range kb.clauses {
		writeClause(bw, c)
	}
	for _, m := range assumptions {
		writeClause(bw, Clause{m})
	}
	return errors.Wrap(bw.Flush(), "writing dimacs")
}

func writeClause(bw *bufio.Writer, c Clause) {
	for _, m := range c {
		bw.WriteString(strconv.Itoa(int(m)))
		bw.WriteByte(' ')
	}
	bw.WriteString("0\n")
}

func (kb *KnowledgeBase) String() string {
	var b strings.Builder
	kb.WriteDIMACS(&b)
	return b.String()
}
