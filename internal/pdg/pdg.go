// Package pdg builds the program dependence graph (control dependence ∪
// data dependence) from a function's CFG and DFG, and layers a slicer and
// a taint analysis on top of it (spec §4.6).
package pdg

import (
	"github.com/codegraph-ir/codegraph/internal/dataflow"
	"github.com/codegraph-ir/codegraph/internal/flow"
)

// EdgeKind distinguishes the two dependence relations a PDG edge can carry.
type EdgeKind uint8

const (
	DataDep EdgeKind = iota
	ControlDep
)

// Edge is one dependence edge between two DFG node ids (or a synthetic
// block-representative id for a block with no DFG node of its own — see
// blockRepresentative).
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// PDG is one function's program dependence graph.
type PDG struct {
	Edges     []Edge
	NodeBlock map[int]int // DFG/representative node id -> owning CFG block id
}

// Build constructs the PDG: data edges are dfg's def-use edges verbatim;
// control edges connect a representative node of each controlling block
// to every node of each block control-dependent on it.
func Build(cfg *flow.CFG, dfg *dataflow.DFG) *PDG {
	p := &PDG{NodeBlock: make(map[int]int, len(dfg.Nodes))}

	blockNodes := make(map[int][]int)
	for _, n := range dfg.Nodes {
		blockNodes[n.BlockID] = append(blockNodes[n.BlockID], n.ID)
		p.NodeBlock[n.ID] = n.BlockID
	}

	for _, e := range dfg.Edges {
		p.Edges = append(p.Edges, Edge{From: e.Def, To: e.Use, Kind: DataDep})
	}

	representative := func(blockID int) int {
		if nodes := blockNodes[blockID]; len(nodes) > 0 {
			return nodes[0]
		}
		rep := -(blockID + 1) // synthetic id for a block with no DFG node
		p.NodeBlock[rep] = blockID
		return rep
	}

	for controller, controlled := range controlDependence(cfg) {
		from := representative(controller)
		for _, cb := range controlled {
			for _, to := range blockNodes[cb] {
				p.Edges = append(p.Edges, Edge{From: from, To: to, Kind: ControlDep})
			}
			if len(blockNodes[cb]) == 0 {
				p.Edges = append(p.Edges, Edge{From: from, To: representative(cb), Kind: ControlDep})
			}
		}
	}

	return p
}

// controlDependence computes, for each controlling block, the blocks
// control-dependent on it: the classic Ferrante/Ottenstein/Warren result
// that control dependence is exactly the dominance frontier of the
// *reverse* CFG (forward successors become reverse-graph predecessors,
// EXIT becomes the reverse-graph root).
func controlDependence(cfg *flow.CFG) map[int][]int {
	blocks := make([]int, 0, len(cfg.Blocks))
	succs := make(map[int][]int, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blocks = append(blocks, b.ID)
		succs[b.ID] = cfg.Successors(b.ID)
	}

	doms := dominatorsGeneric(blocks, cfg.Exit, succs)
	idom := immediateDominatorsGeneric(blocks, cfg.Exit, doms)
	postDF := dominanceFrontierGeneric(blocks, succs, idom)

	ctrl := make(map[int][]int)
	for y, frontier := range postDF {
		for x := range frontier {
			ctrl[x] = append(ctrl[x], y)
		}
	}
	return ctrl
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersectSet(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// dominatorsGeneric is internal/dataflow's dominator fixpoint, generalized
// to an arbitrary (blocks, root, predecessor-map) triple so it can be run
// on the reverse graph for post-dominance.
func dominatorsGeneric(blocks []int, root int, preds map[int][]int) map[int]map[int]bool {
	all := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		all[b] = true
	}
	doms := make(map[int]map[int]bool, len(blocks))
	for _, b := range blocks {
		if b == root {
			doms[b] = map[int]bool{b: true}
		} else {
			doms[b] = cloneSet(all)
		}
	}
	for changed := true; changed; {
		changed = false
		for _, b := range blocks {
			if b == root {
				continue
			}
			var next map[int]bool
			for i, p := range preds[b] {
				if i == 0 {
					next = cloneSet(doms[p])
					continue
				}
				next = intersectSet(next, doms[p])
			}
			if next == nil {
				next = map[int]bool{}
			}
			next[b] = true
			if !setEqual(next, doms[b]) {
				doms[b] = next
				changed = true
			}
		}
	}
	return doms
}

func immediateDominatorsGeneric(blocks []int, root int, doms map[int]map[int]bool) map[int]int {
	idom := make(map[int]int, len(blocks))
	for _, b := range blocks {
		if b == root {
			continue
		}
		best, bestLen := -1, -1
		for c := range doms[b] {
			if c == b {
				continue
			}
			if l := len(doms[c]); l > bestLen {
				bestLen, best = l, c
			}
		}
		if best != -1 {
			idom[b] = best
		}
	}
	return idom
}

// dominanceFrontierGeneric mirrors internal/dataflow's dominanceFrontiers,
// generalized to a plain predecessor-map so controlDependence can run it
// against the reverse graph: preds[b] must already be "b's predecessors in
// whichever graph idom/doms were computed over" (forward successors, for
// the post-dominance case), not a from->to adjacency to invert.
func dominanceFrontierGeneric(blocks []int, preds map[int][]int, idom map[int]int) map[int]map[int]bool {
	df := make(map[int]map[int]bool, len(blocks))
	for _, b := range blocks {
		df[b] = map[int]bool{}
	}
	for _, b := range blocks {
		ps := preds[b]
		if len(ps) < 2 {
			continue
		}
		ib, hasIdom := idom[b]
		for _, p := range ps {
			runner := p
			for {
				if hasIdom && runner == ib {
					break
				}
				df[runner][b] = true
				next, ok := idom[runner]
				if !ok {
					break
				}
				runner = next
			}
		}
	}
	return df
}
