package solver

import (
	"math/bits"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variables(n int) []Variable {
	vs := make([]Variable, n)
	for i := range vs {
		vs[i] = Variable(i + 1)
	}
	return vs
}

// satisfied evaluates cs under the assignment whose bit i gives the
// value of variable i+1.
func satisfied(cs []Clause, assignment uint) bool {
	for _, c := range cs {
		ok := false
		for _, m := range c {
			value := assignment&(1<<uint(m.Var()-1)) != 0
			if value == m.IsPositive() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestExactlyModels(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for k := 0; k <= n; k++ {
			cs, err := Exactly(k, variables(n)...)
			require.NoError(t, err, "n=%d k=%d", n, k)
			for assignment := uint(0); assignment < 1<<uint(n); assignment++ {
				want := bits.OnesCount(assignment) == k
				if got := satisfied(cs, assignment); got != want {
					t.Fatalf("n=%d k=%d assignment=%0*b: satisfied=%t, want %t", n, k, n, assignment, got, want)
				}
			}
		}
	}
}

func TestExactlyClauses(t *testing.T) {
	type tc struct {
		Name    string
		K       int
		Vars    []Variable
		Clauses []Clause
	}

	for _, tt := range []tc{
		{
			Name:    "none of zero",
			K:       0,
			Vars:    nil,
			Clauses: []Clause{},
		},
		{
			Name:    "none",
			K:       0,
			Vars:    []Variable{1, 2, 3},
			Clauses: []Clause{{-1}, {-2}, {-3}},
		},
		{
			Name:    "all",
			K:       3,
			Vars:    []Variable{1, 2, 3},
			Clauses: []Clause{{1}, {2}, {3}},
		},
		{
			Name: "one of three",
			K:    1,
			Vars: []Variable{1, 2, 3},
			Clauses: []Clause{
				{1, 2, 3},
				{-1, -2}, {-1, -3}, {-2, -3},
			},
		},
		{
			Name: "two of three",
			K:    2,
			Vars: []Variable{4, 5, 6},
			Clauses: []Clause{
				{4, 5}, {4, 6}, {5, 6},
				{-4, -5, -6},
			},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			cs, err := Exactly(tt.K, tt.Vars...)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.Clauses, cs); diff != "" {
				t.Errorf("unexpected clauses (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExactlyInvalid(t *testing.T) {
	type tc struct {
		Name string
		K    int
		N    int
	}

	for _, tt := range []tc{
		{Name: "more than available", K: 4, N: 3},
		{Name: "any of none", K: 1, N: 0},
		{Name: "negative", K: -1, N: 3},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			cs, err := Exactly(tt.K, variables(tt.N)...)
			assert.Nil(t, cs)
			var invalid *InvalidConstraint
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.K, invalid.K)
			assert.Equal(t, tt.N, invalid.N)
		})
	}
}

func TestAtMost(t *testing.T) {
	cs, err := AtMost(3, variables(3)...)
	assert.NoError(t, err)
	assert.Empty(t, cs)

	cs, err = AtMost(1, variables(3)...)
	require.NoError(t, err)
	for assignment := uint(0); assignment < 8; assignment++ {
		assert.Equal(t, bits.OnesCount(assignment) <= 1, satisfied(cs, assignment), "assignment %03b", assignment)
	}

	_, err = AtMost(-1, variables(3)...)
	assert.Error(t, err)
}

func TestAtLeast(t *testing.T) {
	cs, err := AtLeast(0, variables(3)...)
	assert.NoError(t, err)
	assert.Empty(t, cs)

	cs, err = AtLeast(2, variables(4)...)
	require.NoError(t, err)
	for assignment := uint(0); assignment < 16; assignment++ {
		assert.Equal(t, bits.OnesCount(assignment) >= 2, satisfied(cs, assignment), "assignment %04b", assignment)
	}

	_, err = AtLeast(5, variables(4)...)
	assert.Error(t, err)
}
