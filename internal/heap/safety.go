package heap

import (
	"sort"
	"strconv"
)

// IssueKind enumerates the memory-safety checker families (spec §4.8).
type IssueKind uint8

const (
	NullDereference IssueKind = iota
	UseAfterFree
	DoubleFree
	BufferOverflow
	SpatialMemorySafety
)

func (k IssueKind) String() string {
	switch k {
	case NullDereference:
		return "NullDereference"
	case UseAfterFree:
		return "UseAfterFree"
	case DoubleFree:
		return "DoubleFree"
	case BufferOverflow:
		return "BufferOverflow"
	case SpatialMemorySafety:
		return "SpatialMemorySafety"
	default:
		return "Unknown"
	}
}

// Severity ranks a MemorySafetyIssue for triage.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// MemorySafetyIssue is one finding from a Checker (spec §4.8).
type MemorySafetyIssue struct {
	Kind        IssueKind
	File        string
	Line        int
	Severity    Severity
	Description string
}

// NilSite is a variable observed to hold a nil/null value at a given
// program point (assignment, zero value, or a failed-lookup pattern).
type NilSite struct {
	Variable string
	BlockID  int
	Line     int
}

// DerefSite is a use of a variable through dereference (field access,
// method call, index, pointer deref).
type DerefSite struct {
	Variable string
	BlockID  int
	Line     int
}

// FreeSite is a point where a variable's backing resource was released
// (free/close/drop).
type FreeSite struct {
	Variable string
	BlockID  int
	Line     int
}

// IndexSite is an indexing operation, paired with a statically known
// bound when available (-1 if the bound isn't known at analysis time).
type IndexSite struct {
	Variable string
	BlockID  int
	Line     int
	Index    int
	Bound    int
}

// CheckContext bundles everything a Checker needs. Only the fields a
// given checker cares about need be populated; unused fields are simply
// empty.
type CheckContext struct {
	File       string
	Nils       []NilSite
	Derefs     []DerefSite
	Frees      []FreeSite
	Indexes    []IndexSite
	Successors map[int][]int // CFG block successor edges, for reachability between sites
}

// reachable reports whether to is reachable from from by following
// Successors (including from == to), capped to avoid runaway traversal
// on malformed graphs.
func (c CheckContext) reachable(from, to int) bool {
	if from == to {
		return true
	}
	seen := map[int]bool{from: true}
	queue := []int{from}
	for i := 0; i < len(queue) && i < 100000; i++ {
		b := queue[i]
		for _, succ := range c.Successors[b] {
			if succ == to {
				return true
			}
			if !seen[succ] {
				seen[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return false
}

// Checker is one pluggable memory-safety rule (spec §4.8).
type Checker interface {
	Name() string
	Check(ctx CheckContext) []MemorySafetyIssue
}

// NullDerefChecker flags a dereference of a variable last known to be
// nil, reachable from the nil assignment without an intervening
// reassignment (approximated here as: no Def of the variable occurs
// between the nil site and the deref other than the nil site itself —
// callers that need reassignment tracking supply Nils/Derefs already
// filtered to the relevant scope).
type NullDerefChecker struct{}

func (NullDerefChecker) Name() string { return "null-dereference" }

func (NullDerefChecker) Check(ctx CheckContext) []MemorySafetyIssue {
	var issues []MemorySafetyIssue
	for _, n := range ctx.Nils {
		for _, d := range ctx.Derefs {
			if d.Variable != n.Variable {
				continue
			}
			if !ctx.reachable(n.BlockID, d.BlockID) {
				continue
			}
			issues = append(issues, MemorySafetyIssue{
				Kind:        NullDereference,
				File:        ctx.File,
				Line:        d.Line,
				Severity:    SeverityError,
				Description: "dereference of " + d.Variable + ", possibly nil since line " + strconv.Itoa(n.Line),
			})
		}
	}
	return issues
}

// UseAfterFreeChecker flags a deref of a variable reachable from a free
// of that same variable.
type UseAfterFreeChecker struct{}

func (UseAfterFreeChecker) Name() string { return "use-after-free" }

func (UseAfterFreeChecker) Check(ctx CheckContext) []MemorySafetyIssue {
	var issues []MemorySafetyIssue
	for _, f := range ctx.Frees {
		for _, d := range ctx.Derefs {
			if d.Variable != f.Variable {
				continue
			}
			if f.BlockID == d.BlockID && d.Line <= f.Line {
				continue
			}
			if !ctx.reachable(f.BlockID, d.BlockID) {
				continue
			}
			issues = append(issues, MemorySafetyIssue{
				Kind:        UseAfterFree,
				File:        ctx.File,
				Line:        d.Line,
				Severity:    SeverityCritical,
				Description: d.Variable + " used after being freed at line " + strconv.Itoa(f.Line),
			})
		}
	}
	return issues
}

// DoubleFreeChecker flags a second free of a variable reachable from an
// earlier free. Reallocation between the two frees is not tracked.
type DoubleFreeChecker struct{}

func (DoubleFreeChecker) Name() string { return "double-free" }

func (DoubleFreeChecker) Check(ctx CheckContext) []MemorySafetyIssue {
	byVar := make(map[string][]FreeSite)
	for _, f := range ctx.Frees {
		byVar[f.Variable] = append(byVar[f.Variable], f)
	}
	var issues []MemorySafetyIssue
	for v, sites := range byVar {
		sort.Slice(sites, func(i, j int) bool { return sites[i].Line < sites[j].Line })
		for i := 1; i < len(sites); i++ {
			if ctx.reachable(sites[i-1].BlockID, sites[i].BlockID) {
				issues = append(issues, MemorySafetyIssue{
					Kind:        DoubleFree,
					File:        ctx.File,
					Line:        sites[i].Line,
					Severity:    SeverityCritical,
					Description: v + " freed again, first freed at line " + strconv.Itoa(sites[i-1].Line),
				})
			}
		}
	}
	return issues
}

// BufferOverflowChecker flags an index site whose index is a statically
// known constant at or beyond the known bound.
type BufferOverflowChecker struct{}

func (BufferOverflowChecker) Name() string { return "buffer-overflow" }

func (BufferOverflowChecker) Check(ctx CheckContext) []MemorySafetyIssue {
	var issues []MemorySafetyIssue
	for _, ix := range ctx.Indexes {
		if ix.Bound < 0 {
			continue
		}
		if ix.Index >= ix.Bound || ix.Index < 0 {
			issues = append(issues, MemorySafetyIssue{
				Kind:        BufferOverflow,
				File:        ctx.File,
				Line:        ix.Line,
				Severity:    SeverityError,
				Description: ix.Variable + "[" + strconv.Itoa(ix.Index) + "] out of bounds for size " + strconv.Itoa(ix.Bound),
			})
		}
	}
	return issues
}

// SpatialSafetyChecker flags an index whose bound is unknown (Bound <
// 0): it can't prove safety, so it reports a lower-confidence finding
// distinct from BufferOverflowChecker's proven violations.
type SpatialSafetyChecker struct{}

func (SpatialSafetyChecker) Name() string { return "spatial-memory-safety" }

func (SpatialSafetyChecker) Check(ctx CheckContext) []MemorySafetyIssue {
	var issues []MemorySafetyIssue
	for _, ix := range ctx.Indexes {
		if ix.Bound >= 0 {
			continue
		}
		issues = append(issues, MemorySafetyIssue{
			Kind:        SpatialMemorySafety,
			File:        ctx.File,
			Line:        ix.Line,
			Severity:    SeverityWarning,
			Description: ix.Variable + "[" + strconv.Itoa(ix.Index) + "] has no statically known bound",
		})
	}
	return issues
}

