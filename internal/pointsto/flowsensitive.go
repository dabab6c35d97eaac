package pointsto

import (
	"sort"

	"github.com/codegraph-ir/codegraph/internal/flow"
	"github.com/codegraph-ir/codegraph/internal/types"
)

// BlockConstraint pairs a points-to constraint with the CFG block it
// executes in, the unit the flow-sensitive solver reasons over (spec
// §4.7's flow-sensitive variant: a per-program-point analysis rather than
// Andersen/Steensgaard's single whole-function summary).
type BlockConstraint struct {
	Block      int
	Constraint types.Constraint
}

// FlowState is the per-block points-to snapshot produced by the
// flow-sensitive solver: BlockOut[b][v] is v's points-to set immediately
// after block b executes.
type FlowState struct {
	BlockOut map[int]map[types.VarID]map[types.LocationID]bool
}

func (s *FlowState) at(block int) map[types.VarID]map[types.LocationID]bool {
	m, ok := s.BlockOut[block]
	if !ok {
		m = make(map[types.VarID]map[types.LocationID]bool)
		s.BlockOut[block] = m
	}
	return m
}

func cloneVarSets(m map[types.VarID]map[types.LocationID]bool) map[types.VarID]map[types.LocationID]bool {
	out := make(map[types.VarID]map[types.LocationID]bool, len(m))
	for v, set := range m {
		clone := make(map[types.LocationID]bool, len(set))
		for loc := range set {
			clone[loc] = true
		}
		out[v] = clone
	}
	return out
}

// SolveFlowSensitive runs a forward dataflow fixpoint over cfg's blocks.
// A variable assigned a singleton set by an Alloc/Copy in a block is a
// strong update (the old set is replaced); a variable whose set can only
// grow because a block merges from multiple predecessors is a weak
// update (the old set survives, joined with the new). Loop back-edges
// make blocks converge rather than definitionally resolve in one pass,
// so this iterates to a fixpoint like the other solvers.
func SolveFlowSensitive(cfg *flow.CFG, constraints []BlockConstraint) *FlowState {
	byBlock := make(map[int][]types.Constraint)
	for _, bc := range constraints {
		byBlock[bc.Block] = append(byBlock[bc.Block], bc.Constraint)
	}

	state := &FlowState{BlockOut: make(map[int]map[types.VarID]map[types.LocationID]bool)}
	order := make([]int, 0, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		order = append(order, b.ID)
	}
	sort.Ints(order)

	changed := true
	for pass := 0; changed && pass < len(order)+2; pass++ {
		changed = false
		for _, b := range order {
			in := make(map[types.VarID]map[types.LocationID]bool)
			for _, pred := range cfg.Predecessors(b) {
				joinInto(in, state.at(pred))
			}

			out := cloneVarSets(in)
			for _, c := range byBlock[b] {
				applyFlowConstraint(out, c)
			}

			if !sameState(state.at(b), out) {
				state.BlockOut[b] = out
				changed = true
			}
		}
	}
	return state
}

func joinInto(dst, src map[types.VarID]map[types.LocationID]bool) {
	for v, set := range src {
		d, ok := dst[v]
		if !ok {
			d = make(map[types.LocationID]bool)
			dst[v] = d
		}
		for loc := range set {
			d[loc] = true
		}
	}
}

func sameState(a, b map[types.VarID]map[types.LocationID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for v, set := range a {
		other, ok := b[v]
		if !ok || len(other) != len(set) {
			return false
		}
		for loc := range set {
			if !other[loc] {
				return false
			}
		}
	}
	return true
}

func applyFlowConstraint(out map[types.VarID]map[types.LocationID]bool, c types.Constraint) {
	set := func(v types.VarID) map[types.LocationID]bool {
		m, ok := out[v]
		if !ok {
			m = make(map[types.LocationID]bool)
			out[v] = m
		}
		return m
	}

	switch c.Kind {
	case types.ConstraintAlloc:
		// A fresh allocation is a strong update: this block's definition
		// of c.LHS fully replaces whatever it pointed to before.
		out[c.LHS] = map[types.LocationID]bool{c.Loc: true}
	case types.ConstraintCopy:
		out[c.LHS] = cloneOne(set(c.RHS))
	case types.ConstraintLoad, types.ConstraintFieldLoad, types.ConstraintStore, types.ConstraintFieldStore:
		// No strong-update story for indirect writes: leave the target
		// variable's set as a weak join of what it already held.
	}
}

func cloneOne(src map[types.LocationID]bool) map[types.LocationID]bool {
	out := make(map[types.LocationID]bool, len(src))
	for loc := range src {
		out[loc] = true
	}
	return out
}
