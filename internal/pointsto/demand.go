package pointsto

import "github.com/codegraph-ir/codegraph/internal/types"

// DemandSolver answers "what can v point to" by by a backward
// traversal of only the constraints that can possibly feed v, memoized
// across queries against the same constraint set (spec §4.7's
// demand-driven variant: cheap for a handful of call-site queries,
// avoids solving the whole program when only a few answers are needed).
type DemandSolver struct {
	constraints []types.Constraint
	byLHS       map[types.VarID][]types.Constraint
	memo        map[types.VarID]map[types.LocationID]bool
}

func NewDemandSolver(constraints []types.Constraint) *DemandSolver {
	d := &DemandSolver{
		constraints: constraints,
		byLHS:       make(map[types.VarID][]types.Constraint),
		memo:        make(map[types.VarID]map[types.LocationID]bool),
	}
	for _, c := range constraints {
		d.byLHS[c.LHS] = append(d.byLHS[c.LHS], c)
	}
	return d
}

// Query resolves v's points-to set on demand, memoizing per variable and
// guarding against cyclic constraint chains (a var depending on itself
// through a chain of Copy edges) with an in-progress marker.
func (d *DemandSolver) Query(v types.VarID) map[types.LocationID]bool {
	return d.query(v, make(map[types.VarID]bool))
}

func (d *DemandSolver) query(v types.VarID, inProgress map[types.VarID]bool) map[types.LocationID]bool {
	if set, ok := d.memo[v]; ok {
		return set
	}
	if inProgress[v] {
		return nil // cycle: this call's contribution resolves to nothing new
	}
	inProgress[v] = true

	set := make(map[types.LocationID]bool)
	for _, c := range d.byLHS[v] {
		switch c.Kind {
		case types.ConstraintAlloc:
			set[c.Loc] = true
		case types.ConstraintCopy:
			for loc := range d.query(c.RHS, inProgress) {
				set[loc] = true
			}
		case types.ConstraintLoad:
			for loc := range d.query(c.RHS, inProgress) {
				for inner := range d.locationQuery(loc, types.FieldNone, inProgress) {
					set[inner] = true
				}
			}
		case types.ConstraintFieldLoad:
			for loc := range d.query(c.Base, inProgress) {
				for inner := range d.locationQuery(loc, c.Field, inProgress) {
					set[inner] = true
				}
			}
		}
	}
	delete(inProgress, v)
	d.memo[v] = set
	return set
}

// locationQuery answers "what does whatever was stored at loc.field
// point to", by scanning Store/FieldStore constraints whose target base
// may resolve to loc.
func (d *DemandSolver) locationQuery(loc types.LocationID, field types.FieldID, inProgress map[types.VarID]bool) map[types.LocationID]bool {
	set := make(map[types.LocationID]bool)
	for _, c := range d.constraints {
		switch c.Kind {
		case types.ConstraintStore:
			if field != types.FieldNone {
				continue
			}
			if d.mayPointTo(c.LHS, loc, inProgress) {
				for l := range d.query(c.RHS, inProgress) {
					set[l] = true
				}
			}
		case types.ConstraintFieldStore:
			if c.Field != field {
				continue
			}
			if d.mayPointTo(c.Base, loc, inProgress) {
				for l := range d.query(c.RHS, inProgress) {
					set[l] = true
				}
			}
		}
	}
	return set
}

func (d *DemandSolver) mayPointTo(v types.VarID, loc types.LocationID, inProgress map[types.VarID]bool) bool {
	return d.query(v, inProgress)[loc]
}

// MayFlow reports whether a value allocated at source can reach sink
// through any chain of Copy/Load/FieldLoad constraints, via forward BFS
// over the constraint graph (spec §4.7's may_flow query). Flow through a
// Store or FieldStore is not followed.
func MayFlow(constraints []types.Constraint, source types.LocationID, sink types.VarID) bool {
	reachesVar := make(map[types.VarID]bool)
	queue := []types.VarID{}
	for _, c := range constraints {
		if c.Kind == types.ConstraintAlloc && c.Loc == source {
			if !reachesVar[c.LHS] {
				reachesVar[c.LHS] = true
				queue = append(queue, c.LHS)
			}
		}
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if v == sink {
			return true
		}
		for _, c := range constraints {
			var next types.VarID
			var ok bool
			switch c.Kind {
			case types.ConstraintCopy:
				if c.RHS == v {
					next, ok = c.LHS, true
				}
			case types.ConstraintLoad:
				if c.RHS == v {
					next, ok = c.LHS, true
				}
			case types.ConstraintFieldLoad:
				if c.Base == v {
					next, ok = c.LHS, true
				}
			}
			if ok && !reachesVar[next] {
				reachesVar[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachesVar[sink]
}
