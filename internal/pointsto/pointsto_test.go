package pointsto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// x := &obj1; y := x -- y must alias x and both must point to obj1.
func straightLineCopyConstraints() []types.Constraint {
	const x, y types.VarID = 1, 2
	const obj1 types.LocationID = 100
	return []types.Constraint{
		types.AllocConstraint(x, obj1),
		types.CopyConstraint(y, x),
	}
}

func TestSteensgaardAliasesThroughCopy(t *testing.T) {
	g := SolveSteensgaard(straightLineCopyConstraints())
	require.Contains(t, g.PointsTo, types.VarID(2))
	assert.True(t, g.PointsTo[2][100])
	assert.True(t, g.MayAlias(1, 2))
	assert.Equal(t, types.VerdictHeuristic, g.Stats.Verdict)
}

func TestAndersenAliasesThroughCopy(t *testing.T) {
	g := SolveAndersen(straightLineCopyConstraints(), types.DefaultPointsToConfig())
	require.Contains(t, g.PointsTo, types.VarID(2))
	assert.True(t, g.PointsTo[2][100])
	assert.Equal(t, types.VerdictProven, g.Stats.Verdict)
}

// x := &o1; y := &o2; if cond { p := x } else { p := y } -- p is a merge
// point, so a precise (inclusion-based) solver must keep BOTH o1 and o2
// in p's set, while a unification-based solver collapses x, y and p into
// one class and reports both too -- the distinguishing case is that
// Andersen never lets x and y alias each other even though p points to both.
func branchingConstraints() []types.Constraint {
	const x, y, p types.VarID = 1, 2, 3
	const o1, o2 types.LocationID = 100, 200
	return []types.Constraint{
		types.AllocConstraint(x, o1),
		types.AllocConstraint(y, o2),
		types.CopyConstraint(p, x),
		types.CopyConstraint(p, y),
	}
}

func TestAndersenKeepsPrecisionAcrossMerge(t *testing.T) {
	g := SolveAndersen(branchingConstraints(), types.DefaultPointsToConfig())
	assert.True(t, g.PointsTo[3][100])
	assert.True(t, g.PointsTo[3][200])
	assert.False(t, g.MayAlias(1, 2), "Andersen must not alias x and y just because they merge into p")
}

func TestAndersenMatchesParallelSolver(t *testing.T) {
	constraints := branchingConstraints()
	cfg := types.DefaultPointsToConfig()

	sequential := SolveAndersen(constraints, cfg)
	parallel := SolveAndersenParallel(constraints, cfg, 3)

	assert.Equal(t, len(sequential.PointsTo), len(parallel.PointsTo))
	for v, set := range sequential.PointsTo {
		require.Contains(t, parallel.PointsTo, v)
		assert.Equal(t, len(set), len(parallel.PointsTo[v]))
		for loc := range set {
			assert.True(t, parallel.PointsTo[v][loc])
		}
	}
}

func TestDemandSolverMatchesAndersenForSingleQuery(t *testing.T) {
	constraints := branchingConstraints()
	d := NewDemandSolver(constraints)

	set := d.Query(3)
	assert.True(t, set[100])
	assert.True(t, set[200])
}

func TestMayFlowReachesCopiedSink(t *testing.T) {
	constraints := branchingConstraints()
	assert.True(t, MayFlow(constraints, 100, 3))
	assert.False(t, MayFlow(constraints, 999, 3))
}

func TestSolveDispatchesByMode(t *testing.T) {
	constraints := branchingConstraints()

	fast := types.DefaultPointsToConfig()
	fast.Mode = types.ModeFast
	g := Solve(constraints, fast)
	assert.Equal(t, types.ModeFast, g.Stats.Mode)

	precise := types.DefaultPointsToConfig()
	precise.Mode = types.ModePrecise
	g = Solve(constraints, precise)
	assert.Equal(t, types.ModePrecise, g.Stats.Mode)

	hybridSmall := types.DefaultPointsToConfig()
	hybridSmall.Mode = types.ModeHybrid
	hybridSmall.RefineThreshold = 100
	g = Solve(constraints, hybridSmall)
	assert.Equal(t, types.ModePrecise, g.Stats.Mode, "at or below RefineThreshold, hybrid should run Andersen")

	hybridLarge := types.DefaultPointsToConfig()
	hybridLarge.Mode = types.ModeHybrid
	hybridLarge.RefineThreshold = 2
	g = Solve(constraints, hybridLarge)
	assert.Equal(t, types.ModeFast, g.Stats.Mode, "above RefineThreshold, hybrid should return Steensgaard's result")
}

func TestTarjanSCCCollapsesCycle(t *testing.T) {
	// a -> b -> c -> a (Copy edges form a cycle): all three collapse to
	// one representative.
	edges := map[types.VarID][]types.VarID{
		1: {2},
		2: {3},
		3: {1},
	}
	rep := tarjanSCC(edges)
	require.Len(t, rep, 3)
	r := rep[1]
	assert.Equal(t, r, rep[2])
	assert.Equal(t, r, rep[3])
}
