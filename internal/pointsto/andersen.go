package pointsto

import (
	"sort"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// andersenSolver is inclusion-based points-to analysis: a pointer's
// points-to set only ever grows, variables can alias without unifying, and
// it tracks what an *abstract location itself* points to (locPts /
// locFieldPts) so a Load/Store through a pointer-to-pointer propagates
// correctly (spec §4.7's Precise mode).
type andersenSolver struct {
	varPts      map[types.VarID]map[types.LocationID]bool
	locPts      map[types.LocationID]map[types.LocationID]bool
	locFieldPts map[types.LocationID]map[types.FieldID]map[types.LocationID]bool
}

func newAndersenSolver() *andersenSolver {
	return &andersenSolver{
		varPts:      make(map[types.VarID]map[types.LocationID]bool),
		locPts:      make(map[types.LocationID]map[types.LocationID]bool),
		locFieldPts: make(map[types.LocationID]map[types.FieldID]map[types.LocationID]bool),
	}
}

func addTo(m map[types.LocationID]bool, loc types.LocationID) bool {
	if m[loc] {
		return false
	}
	m[loc] = true
	return true
}

func unionInto(dst, src map[types.LocationID]bool) bool {
	changed := false
	for loc := range src {
		if !dst[loc] {
			dst[loc] = true
			changed = true
		}
	}
	return changed
}

func (s *andersenSolver) varSet(v types.VarID) map[types.LocationID]bool {
	set, ok := s.varPts[v]
	if !ok {
		set = make(map[types.LocationID]bool)
		s.varPts[v] = set
	}
	return set
}

func (s *andersenSolver) locSet(l types.LocationID, field types.FieldID) map[types.LocationID]bool {
	if field == types.FieldNone {
		set, ok := s.locPts[l]
		if !ok {
			set = make(map[types.LocationID]bool)
			s.locPts[l] = set
		}
		return set
	}
	byField, ok := s.locFieldPts[l]
	if !ok {
		byField = make(map[types.FieldID]map[types.LocationID]bool)
		s.locFieldPts[l] = byField
	}
	set, ok := byField[field]
	if !ok {
		set = make(map[types.LocationID]bool)
		byField[field] = set
	}
	return set
}

// tarjanSCC collapses pure-Copy chains: every variable in a cycle of Copy
// edges ends up with an identical points-to set, so collapsing them to one
// representative before the fixpoint cuts redundant iteration (spec
// §4.7's "Tarjan SCC pre-pass").
func tarjanSCC(edges map[types.VarID][]types.VarID) map[types.VarID]types.VarID {
	index := make(map[types.VarID]int)
	lowlink := make(map[types.VarID]int)
	onStack := make(map[types.VarID]bool)
	var stack []types.VarID
	next := 0
	rep := make(map[types.VarID]types.VarID)

	var nodes []types.VarID
	seen := make(map[types.VarID]bool)
	for from, tos := range edges {
		if !seen[from] {
			seen[from] = true
			nodes = append(nodes, from)
		}
		for _, to := range tos {
			if !seen[to] {
				seen[to] = true
				nodes = append(nodes, to)
			}
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var strongconnect func(v types.VarID)
	strongconnect = func(v types.VarID) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, ok := index[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var scc []types.VarID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			min := scc[0]
			for _, w := range scc {
				if w < min {
					min = w
				}
			}
			for _, w := range scc {
				rep[w] = min
			}
		}
	}

	for _, v := range nodes {
		if _, ok := index[v]; !ok {
			strongconnect(v)
		}
	}
	return rep
}

func canon(rep map[types.VarID]types.VarID, v types.VarID) types.VarID {
	if r, ok := rep[v]; ok {
		return r
	}
	return v
}

// SolveAndersen runs the inclusion-based solver to a fixpoint, re-applying
// every constraint each round (there is no worklist) until a round changes
// nothing (or until cfg.MaxIterations, defaulting to 10*|constraints|+10000 — spec
// §4.7's safety valve against runaway constraint sets) and reifies the
// result into a Graph.
func SolveAndersen(constraints []types.Constraint, cfg types.PointsToConfig) *Graph {
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

	var iterations uint64
	for {
		iterations++
		changed := false
		for _, c := range constraints {
			switch c.Kind {
			case types.ConstraintCopy:
				if unionInto(s.varSet(norm(c.LHS)), s.varSet(norm(c.RHS))) {
					changed = true
				}
			case types.ConstraintLoad:
				lhs := s.varSet(norm(c.LHS))
				for loc := range s.varSet(norm(c.RHS)) {
					if unionInto(lhs, s.locSet(loc, types.FieldNone)) {
						changed = true
					}
				}
			case types.ConstraintStore:
				rhs := s.varSet(norm(c.RHS))
				for loc := range s.varSet(norm(c.LHS)) {
					if unionInto(s.locSet(loc, types.FieldNone), rhs) {
						changed = true
					}
				}
			case types.ConstraintFieldLoad:
				lhs := s.varSet(norm(c.LHS))
				for loc := range s.varSet(norm(c.Base)) {
					if unionInto(lhs, s.locSet(loc, c.Field)) {
						changed = true
					}
				}
			case types.ConstraintFieldStore:
				rhs := s.varSet(norm(c.RHS))
				for loc := range s.varSet(norm(c.Base)) {
					if unionInto(s.locSet(loc, c.Field), rhs) {
						changed = true
					}
				}
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
	// Every collapsed SCC member reports its representative's set, so
	// callers never see a gap for a variable tarjanSCC folded away.
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
