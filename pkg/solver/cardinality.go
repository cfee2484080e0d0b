package solver

// Exactly returns clauses that are satisfied if and only if exactly k
// of vars are true.
//
// The encoding is the plain combinatorial one: every (n-k+1)-subset of
// vars must contain a true variable, and every (k+1)-subset must
// contain a false one. n is at most eight for a square board, so the
// number of clauses stays small.
func Exactly(k int, vars ...Variable) ([]Clause, error) {
	n := len(vars)
	if k < 0 || k > n {
		return nil, &InvalidConstraint{K: k, N: n}
	}

	switch k {
	case 0:
		cs := make([]Clause, n)
		for i, v := range vars {
			cs[i] = Clause{v.Not()}
		}
		return cs, nil
	case n:
		cs := make([]Clause, n)
		for i, v := range vars {
			cs[i] = Clause{v.Literal()}
		}
		return cs, nil
	}

	lower, err := AtLeast(k, vars...)
	if err != nil {
		return nil, err
	}
	upper, err := AtMost(k, vars...)
	if err != nil {
		return nil, err
	}
	return append(lower, upper...), nil
}

// AtLeast returns clauses that forbid fewer than k of vars being true:
// each (n-k+1)-subset of vars becomes a positive clause.
func AtLeast(k int, vars ...Variable) ([]Clause, error) {
	n := len(vars)
	if k < 0 || k > n {
		return nil, &InvalidConstraint{K: k, N: n}
	}
	if k == 0 {
		return nil, nil
	}
	return subsets(vars, n-k+1, false), nil
}

// AtMost returns clauses that forbid more than k of vars being true:
// each (k+1)-subset of vars becomes a clause of negations.
func AtMost(k int, vars ...Variable) ([]Clause, error) {
	n := len(vars)
	if k < 0 {
		return nil, &InvalidConstraint{K: k, N: n}
	}
	if k >= n {
		return nil, nil
	}
	return subsets(vars, k+1, true), nil
}

func subsets(vars []Variable, r int, negate bool) []Clause {
	c := NewCombinations(len(vars), r)
	cs := make([]Clause, 0, c.Count())
	for c.Next() {
		clause := make(Clause, r)
		for i, index := range c.Indices() {
			if negate {
				clause[i] = vars[index].Not()
			} else {
				clause[i] = vars[index].Literal()
			}
		}
		cs = append(cs, clause)
	}
	return cs
}
