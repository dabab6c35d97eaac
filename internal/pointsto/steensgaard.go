package pointsto

import "github.com/codegraph-ir/codegraph/internal/types"

// steensgaardSolver implements unification-based points-to analysis: every
// variable's "points to" relation is a single equivalence class, and a
// copy/load/store constraint unifies the relevant classes rather than
// propagating a growing set — near-linear in practice, at the cost of
// collapsing precision wherever two variables can point to the same thing
// along any path (spec §4.7's Fast mode).
type steensgaardSolver struct {
	uf     *unionFind
	target map[ufNode]ufNode // representative -> representative of its unique pointee class
}

func newSteensgaardSolver() *steensgaardSolver {
	return &steensgaardSolver{uf: newUnionFind(), target: make(map[ufNode]ufNode)}
}

func varNode(v types.VarID) ufNode       { return ufNode{isLoc: false, id: uint32(v)} }
func locNode(l types.LocationID) ufNode { return ufNode{isLoc: true, id: uint32(l)} }

// targetOf returns the representative of n's unique points-to target,
// lazily allocating a fresh anonymous node the first time n is
// dereferenced with nothing known about its target yet.
func (s *steensgaardSolver) targetOf(n ufNode, freshCounter *uint32) ufNode {
	rep := s.uf.find(n)
	if t, ok := s.target[rep]; ok {
		return s.uf.find(t)
	}
	*freshCounter++
	fresh := ufNode{isLoc: false, id: 1<<31 | *freshCounter} // high bit: synthetic node, disjoint from real VarIDs
	s.target[rep] = fresh
	return fresh
}

func (s *steensgaardSolver) unify(a, b ufNode, freshCounter *uint32) {
	ra, rb := s.uf.find(a), s.uf.find(b)
	if ra == rb {
		return
	}
	ta, tOKa := s.target[ra]
	tb, tOKb := s.target[rb]
	rep := s.uf.union(ra, rb)
	delete(s.target, ra)
	delete(s.target, rb)
	switch {
	case tOKa && tOKb:
		s.target[rep] = ta
		s.unify(ta, tb, freshCounter)
	case tOKa:
		s.target[rep] = ta
	case tOKb:
		s.target[rep] = tb
	}
}

// SolveSteensgaard runs the Fast-mode solver to completion and reifies the
// single-target result into a full Graph (every variable has zero or one
// target class, and its "set" is every allocation site merged into that
// class).
func SolveSteensgaard(constraints []types.Constraint) *Graph {
	s := newSteensgaardSolver()
	var fresh uint32

	allocLocs := make(map[types.VarID][]types.LocationID)

	for _, c := range constraints {
		switch c.Kind {
		case types.ConstraintAlloc:
			vRep := s.uf.find(varNode(c.LHS))
			ln := locNode(c.Loc)
			if t, ok := s.target[vRep]; ok {
				s.unify(t, ln, &fresh)
			} else {
				s.target[vRep] = ln
			}
			allocLocs[c.LHS] = append(allocLocs[c.LHS], c.Loc)
		case types.ConstraintCopy:
			s.unify(s.targetOf(varNode(c.LHS), &fresh), s.targetOf(varNode(c.RHS), &fresh), &fresh)
		case types.ConstraintLoad:
			rhsTarget := s.targetOf(varNode(c.RHS), &fresh)
			s.unify(s.targetOf(varNode(c.LHS), &fresh), s.targetOf(rhsTarget, &fresh), &fresh)
		case types.ConstraintStore:
			lhsTarget := s.targetOf(varNode(c.LHS), &fresh)
			s.unify(s.targetOf(lhsTarget, &fresh), s.targetOf(varNode(c.RHS), &fresh), &fresh)
		case types.ConstraintFieldLoad:
			// Field-insensitive collapse: a.field load behaves like *a.
			baseTarget := s.targetOf(varNode(c.Base), &fresh)
			s.unify(s.targetOf(varNode(c.LHS), &fresh), s.targetOf(baseTarget, &fresh), &fresh)
		case types.ConstraintFieldStore:
			baseTarget := s.targetOf(varNode(c.Base), &fresh)
			s.unify(s.targetOf(baseTarget, &fresh), s.targetOf(varNode(c.RHS), &fresh), &fresh)
		}
	}

	// Group every allocation site's location by its final equivalence
	// class, so a variable's resolved target class maps back to the
	// concrete location ids merged into it.
	locsByClass := make(map[ufNode][]types.LocationID)
	for _, locs := range allocLocs {
		for _, l := range locs {
			cls := s.uf.find(locNode(l))
			locsByClass[cls] = append(locsByClass[cls], l)
		}
	}

	g := newGraph(types.ModeFast)
	vars := make(map[types.VarID]bool)
	for _, c := range constraints {
		vars[c.LHS] = true
		if c.Kind != types.ConstraintAlloc {
			vars[c.RHS] = true
		}
		vars[c.Base] = true
	}
	delete(vars, 0)

	for v := range vars {
		rep := s.uf.find(varNode(v))
		t, ok := s.target[rep]
		if !ok {
			continue
		}
		cls := s.uf.find(t)
		for _, l := range locsByClass[cls] {
			g.add(v, l)
		}
	}
	g.Stats.Variables = len(vars)
	g.Stats.Constraints = len(constraints)
	g.Stats.Iterations = 1
	g.Stats.Verdict = types.VerdictHeuristic // unification collapses precision; never treat as Proven
	return g
}
