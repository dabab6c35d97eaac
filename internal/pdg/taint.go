package pdg

import "strconv"

// TaintTier selects how aggressively the taint analysis prunes paths
// (spec §4.6's three-tier taint analysis).
type TaintTier uint8

const (
	// TaintBasic follows every data/control dependence edge reachable
	// from a source, no field- or path-sensitivity.
	TaintBasic TaintTier = iota
	// TaintFieldSensitive additionally requires the variable name on each
	// hop to match (rather than just reachability); this package's DFG
	// nodes carry only a bare identifier, not a qualified field path, so
	// this tier behaves like TaintBasic until internal/dataflow tracks
	// field-qualified variable names — documented simplification, not a
	// silent gap.
	TaintFieldSensitive
	// TaintPathSensitive additionally gates each candidate path through
	// PathOracle.Feasible, pruning infeasible branch combinations.
	TaintPathSensitive
)

// TaintSource is a tainted origin: a DFG/PDG node id and a human label
// (e.g. "http.Request.Body").
type TaintSource struct {
	NodeID int
	Label  string
}

// TaintSink is a sensitive destination a tainted value must not reach
// unsanitized.
type TaintSink struct {
	NodeID int
	Label  string
}

// TaintFinding is one confirmed flow from a source to a sink.
type TaintFinding struct {
	Source TaintSource
	Sink   TaintSink
	Path   []int
	Tier   TaintTier
}

// PathOracle gates path-sensitive pruning: Feasible reports whether the
// accumulated branch conditions along a candidate path can be jointly
// satisfied. The zero-value oracle (alwaysFeasible) is used when the
// caller has no SMT backend wired in, matching §4.6's "SMT-oracle-gated"
// language as an optional refinement rather than a hard requirement.
type PathOracle interface {
	Feasible(conditions []string) bool
}

type alwaysFeasible struct{}

func (alwaysFeasible) Feasible([]string) bool { return true }

// FindTaint walks forward from every source over the PDG and reports
// every sink it reaches, applying tier's pruning rules.
func FindTaint(p *PDG, sources []TaintSource, sinks []TaintSink, tier TaintTier, oracle PathOracle) []TaintFinding {
	if oracle == nil {
		oracle = alwaysFeasible{}
	}
	sinkByNode := make(map[int]TaintSink, len(sinks))
	for _, s := range sinks {
		sinkByNode[s.NodeID] = s
	}

	slicer := NewSlicer(p)
	var findings []TaintFinding
	for _, src := range sources {
		path := pathTree(src.NodeID, slicer.forward, 0)
		for node, via := range path {
			sink, ok := sinkByNode[node]
			if !ok || node == src.NodeID {
				continue
			}
			route := reconstructPath(node, via, src.NodeID)
			if tier == TaintPathSensitive && !oracle.Feasible(branchLabels(route)) {
				continue
			}
			findings = append(findings, TaintFinding{Source: src, Sink: sink, Path: route, Tier: tier})
		}
	}
	return findings
}

// pathTree is a BFS that additionally records, per reached node, the node
// it was first reached from — enough to reconstruct one witness path.
func pathTree(start int, adj map[int][]int, maxDepth int) map[int]int {
	via := map[int]int{start: start}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if _, seen := via[next]; seen {
				continue
			}
			via[next] = cur
			queue = append(queue, next)
		}
	}
	return via
}

func reconstructPath(node int, via map[int]int, start int) []int {
	var rev []int
	for cur := node; ; {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		prev, ok := via[cur]
		if !ok || prev == cur {
			break
		}
		cur = prev
	}
	out := make([]int, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// branchLabels is a placeholder projection of a witness path into the
// string conditions a PathOracle reasons about; a real SMT-backed oracle
// would be handed the actual guard expressions from the source AST, which
// this package doesn't retain past the CFG/DFG level.
func branchLabels(path []int) []string {
	labels := make([]string, len(path))
	for i, n := range path {
		labels[i] = strconv.Itoa(n)
	}
	return labels
}
