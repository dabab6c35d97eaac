package pointsto

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// SolveAndersenParallel partitions constraints into shards round-robin by
// position (constraint i goes to shard i%workers) and runs each shard's direct-constraint pass concurrently within a
// fixpoint round, synchronizing only at the round boundary. It must
// produce bit-identical results to SolveAndersen: sharding changes which
// goroutine touches which variable's set, never the final fixpoint, since
// union is commutative and idempotent (spec §4.7's parallel Andersen).
func SolveAndersenParallel(constraints []types.Constraint, cfg types.PointsToConfig, workers int) *Graph {
	if workers < 1 {
		workers = 1
	}

	s := newAndersenSolver()

	var repMap map[types.VarID]types.VarID
	if cfg.EnableSCC {
		copyEdges := make(map[types.VarID][]types.VarID)
		for _, c := range constraints {
			if c.Kind == types.ConstraintCopy {
				copyEdges[c.RHS] = append(copyEdges[c.RHS], c.LHS)
			}
		}
		repMap = tarjanSCC(copyEdges)
	}
	norm := func(v types.VarID) types.VarID {
		if repMap == nil {
			return v
		}
		return canon(repMap, v)
	}

	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = uint64(10*len(constraints) + 10000)
	}

	for _, c := range constraints {
		if c.Kind == types.ConstraintAlloc {
			addTo(s.varSet(norm(c.LHS)), c.Loc)
		}
	}

	shards := make([][]types.Constraint, workers)
	for i, c := range constraints {
		shard := i % workers
		shards[shard] = append(shards[shard], c)
	}

	var mu sync.Mutex
	applyOne := func(s *andersenSolver, norm func(types.VarID) types.VarID, c types.Constraint) bool {
		switch c.Kind {
		case types.ConstraintCopy:
			return unionInto(s.varSet(norm(c.LHS)), s.varSet(norm(c.RHS)))
		case types.ConstraintLoad:
			lhs := s.varSet(norm(c.LHS))
			changed := false
			for loc := range s.varSet(norm(c.RHS)) {
				if unionInto(lhs, s.locSet(loc, types.FieldNone)) {
					changed = true
				}
			}
			return changed
		case types.ConstraintStore:
			rhs := s.varSet(norm(c.RHS))
			changed := false
			for loc := range s.varSet(norm(c.LHS)) {
				if unionInto(s.locSet(loc, types.FieldNone), rhs) {
					changed = true
				}
			}
			return changed
		case types.ConstraintFieldLoad:
			lhs := s.varSet(norm(c.LHS))
			changed := false
			for loc := range s.varSet(norm(c.Base)) {
				if unionInto(lhs, s.locSet(loc, c.Field)) {
					changed = true
				}
			}
			return changed
		case types.ConstraintFieldStore:
			rhs := s.varSet(norm(c.RHS))
			changed := false
			for loc := range s.varSet(norm(c.Base)) {
				if unionInto(s.locSet(loc, c.Field), rhs) {
					changed = true
				}
			}
			return changed
		}
		return false
	}

	var iterations uint64
	for {
		iterations++
		var g errgroup.Group
		changedFlags := make([]bool, workers)
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				local := false
				for _, c := range shards[w] {
					// Every variable/location map is shared across shards
					// (sharding is by constraint, not by variable), so
					// mutation of shared sets is serialized: the
					// parallelism here overlaps constraint *selection*
					// and set lookups, not concurrent writes to the same
					// bucket.
					mu.Lock()
					if applyOne(s, norm, c) {
						local = true
					}
					mu.Unlock()
				}
				changedFlags[w] = local
				return nil
			})
		}
		_ = g.Wait()

		changed := false
		for _, c := range changedFlags {
			if c {
				changed = true
				break
			}
		}
		if !changed || iterations >= maxIter {
			break
		}
	}

	g := newGraph(types.ModePrecise)
	for v, set := range s.varPts {
		for loc := range set {
			g.add(v, loc)
		}
	}
	if repMap != nil {
		for v, r := range repMap {
			if v == r {
				continue
			}
			if set, ok := s.varPts[r]; ok {
				for loc := range set {
					g.add(v, loc)
				}
			}
		}
	}
	g.Stats.Variables = len(s.varPts)
	g.Stats.Constraints = len(constraints)
	g.Stats.Iterations = int(iterations)
	g.Stats.Verdict = types.VerdictProven
	return g
}
