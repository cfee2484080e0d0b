package solver_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/sweeper/pkg/solver"
	"github.com/operator-framework/sweeper/pkg/solver/solverfakes"
)

// puzzle returns a knowledge base over six variables in which 1, 2
// and 3 are undetermined, 4 and 6 are forced false and 5 is forced
// true.
func puzzle(t *testing.T) *solver.KnowledgeBase {
	t.Helper()
	kb := solver.NewKnowledgeBase()
	var vs []solver.Variable
	for i := 0; i < 6; i++ {
		vs = append(vs, kb.NewVariable())
	}
	for _, constraint := range []struct {
		k    int
		vars []solver.Variable
	}{
		{1, vs[0:3]},
		{1, vs[3:5]},
		{1, vs[4:6]},
		{1, []solver.Variable{vs[3], vs[5], vs[4]}},
	} {
		cs, err := solver.Exactly(constraint.k, constraint.vars...)
		require.NoError(t, err)
		require.NoError(t, kb.AssertAll(cs))
	}
	return kb
}

func gini(t *testing.T) solver.Oracle {
	o, err := solver.NewOracle(solver.BackendGini)
	require.NoError(t, err)
	return o
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	kb := puzzle(t)
	e, err := solver.NewEngine(kb, gini(t))
	require.NoError(t, err)

	expected := map[solver.Variable]solver.Verdict{
		1: solver.Unknown,
		2: solver.Unknown,
		3: solver.Unknown,
		4: solver.NoBomb,
		5: solver.HasBomb,
		6: solver.NoBomb,
	}
	for v := solver.Variable(1); v <= 6; v++ {
		verdict, err := e.Classify(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, expected[v], verdict, "variable %d", v)
	}

	value, ok := kb.Fixed(5)
	assert.True(t, ok)
	assert.True(t, value)
	_, ok = kb.Fixed(1)
	assert.False(t, ok)
}

func TestForcedMutualExclusion(t *testing.T) {
	ctx := context.Background()
	e, err := solver.NewEngine(puzzle(t), gini(t))
	require.NoError(t, err)

	consistent, err := e.Consistent(ctx)
	require.NoError(t, err)
	require.True(t, consistent)

	for v := solver.Variable(1); v <= 6; v++ {
		forcedTrue, err := e.ForcedTrue(ctx, v)
		require.NoError(t, err)
		forcedFalse, err := e.ForcedFalse(ctx, v)
		require.NoError(t, err)
		assert.False(t, forcedTrue && forcedFalse, "variable %d forced both ways", v)
	}
}

func TestClassifyPinsForcedVariables(t *testing.T) {
	ctx := context.Background()
	kb := solver.NewKnowledgeBase()
	a, b := kb.NewVariable(), kb.NewVariable()
	require.NoError(t, kb.AssertAll([]solver.Clause{{a.Literal(), b.Literal()}, {b.Not()}}))

	e, err := solver.NewEngine(kb, gini(t))
	require.NoError(t, err)
	before := kb.Len()

	verdict, err := e.Classify(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, solver.HasBomb, verdict)
	assert.Equal(t, before+1, kb.Len())
	value, ok := kb.Fixed(a)
	assert.True(t, ok)
	assert.True(t, value)
}

func TestClassifyUnknownLeavesKnowledgeUnchanged(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	a, b := kb.NewVariable(), kb.NewVariable()
	require.NoError(t, kb.Assert(solver.Clause{a.Literal(), b.Literal()}))

	e, err := solver.NewEngine(kb, gini(t))
	require.NoError(t, err)
	verdict, err := e.Classify(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, solver.Unknown, verdict)
	assert.Equal(t, 1, kb.Len())
}

func TestClassifyMemoized(t *testing.T) {
	ctx := context.Background()
	kb := solver.NewKnowledgeBase()
	v := kb.NewVariable()

	oracle := &solverfakes.FakeOracle{}
	// refuting ¬v proves v
	oracle.IsSatisfiableReturnsOnCall(0, false, nil)
	oracle.IsSatisfiableReturnsOnCall(1, true, nil)

	e, err := solver.NewEngine(kb, oracle)
	require.NoError(t, err)

	verdict, err := e.Classify(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, solver.HasBomb, verdict)
	require.Equal(t, 2, oracle.IsSatisfiableCallCount())
	_, gotKB, assumptions := oracle.IsSatisfiableArgsForCall(0)
	assert.Same(t, kb, gotKB)
	assert.Equal(t, []solver.Literal{v.Not()}, assumptions)

	for i := 0; i < 3; i++ {
		verdict, err = e.Classify(ctx, v)
		require.NoError(t, err)
		assert.Equal(t, solver.HasBomb, verdict)
	}
	assert.Equal(t, 2, oracle.IsSatisfiableCallCount(), "fixed variables must not reach the oracle")
}

func TestClassifyQueriesForcedTrueFirst(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	v := kb.NewVariable()

	oracle := &solverfakes.FakeOracle{}
	oracle.IsSatisfiableReturnsOnCall(0, true, nil)
	oracle.IsSatisfiableReturnsOnCall(1, false, nil)

	e, err := solver.NewEngine(kb, oracle)
	require.NoError(t, err)
	verdict, err := e.Classify(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, solver.NoBomb, verdict)

	require.Equal(t, 2, oracle.IsSatisfiableCallCount())
	_, _, first := oracle.IsSatisfiableArgsForCall(0)
	_, _, second := oracle.IsSatisfiableArgsForCall(1)
	assert.Equal(t, []solver.Literal{v.Not()}, first)
	assert.Equal(t, []solver.Literal{v.Literal()}, second)
}

func TestClassifyOracleError(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	v := kb.NewVariable()

	oracle := &solverfakes.FakeOracle{}
	oracle.IsSatisfiableReturns(false, &solver.OracleError{Backend: "fake", Reason: "no verdict"})

	e, err := solver.NewEngine(kb, oracle)
	require.NoError(t, err)
	verdict, err := e.Classify(context.Background(), v)
	assert.Equal(t, solver.Unknown, verdict)
	var oracleErr *solver.OracleError
	assert.ErrorAs(t, err, &oracleErr)
	assert.Zero(t, kb.Len())
}

func TestClassifyAllMatchesSequential(t *testing.T) {
	ctx := context.Background()
	vars := []solver.Variable{6, 1, 5, 2, 4, 3, 5}

	for _, backend := range []string{solver.BackendGini, solver.BackendGophersat} {
		t.Run(backend, func(t *testing.T) {
			sequentialKB := puzzle(t)
			sequentialOracle, err := solver.NewOracle(backend)
			require.NoError(t, err)
			sequential, err := solver.NewEngine(sequentialKB, sequentialOracle)
			require.NoError(t, err)
			var want []solver.Verdict
			for _, v := range vars {
				verdict, err := sequential.Classify(ctx, v)
				require.NoError(t, err)
				want = append(want, verdict)
			}

			batchKB := puzzle(t)
			batchOracle, err := solver.NewOracle(backend)
			require.NoError(t, err)
			batch, err := solver.NewEngine(batchKB, batchOracle, solver.WithWorkers(4))
			require.NoError(t, err)
			got, err := batch.ClassifyAll(ctx, vars)
			require.NoError(t, err)

			assert.Equal(t, want, got)
			for v := solver.Variable(1); v <= 6; v++ {
				wantValue, wantOK := sequentialKB.Fixed(v)
				gotValue, gotOK := batchKB.Fixed(v)
				assert.Equal(t, wantOK, gotOK, "variable %d", v)
				assert.Equal(t, wantValue, gotValue, "variable %d", v)
			}
		})
	}
}

func TestClassifyAllAggregatesErrors(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	vars := []solver.Variable{kb.NewVariable(), kb.NewVariable(), kb.NewVariable()}

	oracle := &solverfakes.FakeOracle{}
	oracle.IsSatisfiableReturns(false, errors.New("solver crashed"))

	e, err := solver.NewEngine(kb, oracle, solver.WithWorkers(2))
	require.NoError(t, err)
	verdicts, err := e.ClassifyAll(context.Background(), vars)
	assert.Nil(t, verdicts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver crashed")
	assert.Zero(t, kb.Len(), "failed batches must not assert anything")
}

func TestClassifyInconsistentKnowledge(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{solver.BackendGini, solver.BackendGophersat} {
		t.Run(backend, func(t *testing.T) {
			oracle, err := solver.NewOracle(backend)
			require.NoError(t, err)

			kb := solver.NewKnowledgeBase()
			a, b, c := kb.NewVariable(), kb.NewVariable(), kb.NewVariable()
			require.NoError(t, kb.AssertAll([]solver.Clause{{a.Literal()}, {a.Not()}}))
			e, err := solver.NewEngine(kb, oracle, solver.WithWorkers(2))
			require.NoError(t, err)

			forcedTrue, err := e.ForcedTrue(ctx, b)
			require.NoError(t, err)
			forcedFalse, err := e.ForcedFalse(ctx, b)
			require.NoError(t, err)
			require.True(t, forcedTrue && forcedFalse)

			verdict, err := e.Classify(ctx, b)
			assert.Equal(t, solver.Unknown, verdict)
			var inconsistent *solver.InconsistentKnowledge
			require.ErrorAs(t, err, &inconsistent)
			assert.Equal(t, b, inconsistent.Variable)
			_, ok := kb.Fixed(b)
			assert.False(t, ok, "nothing is pinned into an inconsistent knowledge base")

			verdicts, err := e.ClassifyAll(ctx, []solver.Variable{b, c})
			assert.Nil(t, verdicts)
			require.ErrorAs(t, err, &inconsistent)
			assert.Equal(t, 2, kb.Len())
		})
	}
}

func TestConsistent(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	v := kb.NewVariable()
	require.NoError(t, kb.AssertAll([]solver.Clause{{v.Literal()}, {v.Not()}}))

	e, err := solver.NewEngine(kb, gini(t))
	require.NoError(t, err)
	consistent, err := e.Consistent(context.Background())
	require.NoError(t, err)
	assert.False(t, consistent)
}

func TestNewEngineOptions(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	_, err := solver.NewEngine(nil, gini(t))
	assert.Error(t, err)
	_, err = solver.NewEngine(kb, nil)
	assert.Error(t, err)
	_, err = solver.NewEngine(kb, gini(t), solver.WithWorkers(0))
	assert.Error(t, err)
}

func TestLoggingTracer(t *testing.T) {
	kb := solver.NewKnowledgeBase()
	v := kb.NewVariable()
	require.NoError(t, kb.Assert(solver.Clause{v.Not()}))
	u := kb.NewVariable()

	var b bytes.Buffer
	e, err := solver.NewEngine(kb, gini(t), solver.WithTracer(solver.LoggingTracer{Writer: &b}))
	require.NoError(t, err)
	_, err = e.Classify(context.Background(), u)
	require.NoError(t, err)

	assert.Equal(t,
		"---\nVariable: 2\nAssumptions: [-2]\nResult: sat\n"+
			"---\nVariable: 2\nAssumptions: [2]\nResult: sat\n",
		b.String())
}

func TestInstrumentedOracle(t *testing.T) {
	var successes, failures int
	success := func(time.Duration) { successes++ }
	failure := func(time.Duration) { failures++ }

	fake := &solverfakes.FakeOracle{}
	fake.IsSatisfiableReturnsOnCall(0, true, nil)
	fake.IsSatisfiableReturnsOnCall(1, false, errors.New("boom"))
	o := solver.NewInstrumentedOracle(fake, success, failure)

	kb := solver.NewKnowledgeBase()
	sat, err := o.IsSatisfiable(context.Background(), kb)
	assert.NoError(t, err)
	assert.True(t, sat)
	_, err = o.IsSatisfiable(context.Background(), kb)
	assert.Error(t, err)

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
}
