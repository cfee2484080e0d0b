package solver

import (
	"strconv"
	"strings"

	"github.com/go-air/gini/z"
)

// Variable values are positive, 1-based propositional identifiers.
// A Variable is true when the tile it stands for holds a bomb.
type Variable int

// Literal returns the positive literal of v.
func (v Variable) Literal() Literal {
	return Literal(v)
}

// Not returns the negative literal of v.
func (v Variable) Not() Literal {
	return Literal(-v)
}

func (v Variable) String() string {
	return strconv.Itoa(int(v))
}

// Literal values reference a Variable together with a polarity, using
// the DIMACS convention: v asserts the variable, -v asserts its
// negation. Zero is not a valid Literal.
type Literal int

// Var returns the Variable referenced by m.
func (m Literal) Var() Variable {
	if m < 0 {
		return Variable(-m)
	}
	return Variable(m)
}

// Not returns the complement of m.
func (m Literal) Not() Literal {
	return -m
}

// IsPositive reports whether m asserts its variable.
func (m Literal) IsPositive() bool {
	return m > 0
}

func (m Literal) String() string {
	return strconv.Itoa(int(m))
}

// lit translates m into gini's literal encoding.
func (m Literal) lit() z.Lit {
	return z.Dimacs2Lit(int(m))
}

// Clause values are disjunctions of literals. A Clause asserted into a
// KnowledgeBase must never be empty.
type Clause []Literal

func (c Clause) String() string {
	s := make([]string, len(c))
	for i, m := range c {
		s[i] = m.String()
	}
	return "(" + strings.Join(s, " ∨ ") + ")"
}

// Ints returns the clause as a slice of DIMACS integers.
func (c Clause) Ints() []int {
	ints := make([]int, len(c))
	for i, m := range c {
		ints[i] = int(m)
	}
	return ints
}

// Verdict is the classification of a single Variable under a
// KnowledgeBase.
type Verdict int

const (
	Unknown Verdict = iota
	HasBomb
	NoBomb
)

func (v Verdict) String() string {
	switch v {
	case HasBomb:
		return "has-bomb"
	case NoBomb:
		return "no-bomb"
	default:
		return "unknown"
	}
}
