// Package cost implements loop-bound inference and complexity
// classification (spec §4.10, L15), built directly on internal/flow's
// CFG: loop headers, back-edges, and nesting all come from flow.CFG
// rather than being re-derived here.
package cost

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// BoundKind classifies how a loop's bound was inferred.
type BoundKind uint8

const (
	BoundUnknown BoundKind = iota
	BoundConstant
	BoundSymbolicLen
	BoundSymbolicRange
)

// Bound is one loop's inferred iteration count.
type Bound struct {
	Kind     BoundKind
	Constant int    // valid when Kind == BoundConstant
	Symbol   string // collection/range-end name, for the symbolic kinds
}

// Verdict maps a Bound's kind to a confidence verdict (spec §4.10):
// a constant or an explicit len(collection) call is a high-confidence
// pattern match (Proven); a range ending at a symbolic, non-constant
// value is still a recognized pattern but lower confidence (Likely);
// anything the patterns below don't recognize is Heuristic.
func (b Bound) Verdict() types.Verdict {
	switch b.Kind {
	case BoundConstant, BoundSymbolicLen:
		return types.VerdictProven
	case BoundSymbolicRange:
		return types.VerdictLikely
	default:
		return types.VerdictHeuristic
	}
}

func (b Bound) String() string {
	switch b.Kind {
	case BoundConstant:
		return strconv.Itoa(b.Constant)
	case BoundSymbolicLen:
		return "len(" + b.Symbol + ")"
	case BoundSymbolicRange:
		return b.Symbol
	default:
		return "unknown"
	}
}

var (
	rangeCallPattern = regexp.MustCompile(`\brange\s*\(\s*([^)]*)\)`)
	lenCallPattern   = regexp.MustCompile(`\blen\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)`)
	forInPattern     = regexp.MustCompile(`\bfor\b[^{;]*?\b(?:in|range)\s+([A-Za-z_][A-Za-z0-9_.]*)\b`)
)

// InferBound infers a loop's bound from the text of its header/first
// statement (spec §4.10): `range(n)` or `range(start, end[, step])`
// takes the end argument; a `len(collection)` call, or a `for x in
// collection`/`for x := range collection` construct, bounds by the
// collection's length; anything else is unknown.
func InferBound(stmt string) Bound {
	if m := rangeCallPattern.FindStringSubmatch(stmt); m != nil {
		args := splitArgs(m[1])
		if len(args) > 0 {
			last := strings.TrimSpace(args[len(args)-1])
			if n, err := strconv.Atoi(last); err == nil {
				return Bound{Kind: BoundConstant, Constant: n}
			}
			if last != "" {
				return Bound{Kind: BoundSymbolicRange, Symbol: last}
			}
		}
	}
	if m := lenCallPattern.FindStringSubmatch(stmt); m != nil {
		return Bound{Kind: BoundSymbolicLen, Symbol: m[1]}
	}
	if m := forInPattern.FindStringSubmatch(stmt); m != nil {
		return Bound{Kind: BoundSymbolicLen, Symbol: m[1]}
	}
	return Bound{Kind: BoundUnknown}
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
