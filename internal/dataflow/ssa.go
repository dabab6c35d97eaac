package dataflow

import "github.com/codegraph-ir/codegraph/internal/flow"

// Phi is a phi-function inserted at a join point: for variable Variable in
// block BlockID, Operands maps each predecessor block id to the SSA
// version reaching the join from that predecessor (spec §4.5).
type Phi struct {
	ID       int
	Variable string
	BlockID  int
	Operands map[int]int
}

// SSAName is the (variable, version) pair a DFG node resolves to once
// renamed.
type SSAName struct {
	Variable string
	Version  int
}

// SSA is one function's static single assignment form: the placed phis
// plus the version every original DFG node resolves to.
type SSA struct {
	Phis     []*Phi
	Versions map[int]SSAName // DFNode.ID -> resolved SSA name
}

// BuildSSA computes dominance frontiers over cfg, places phi functions at
// the join points spec §4.5 requires (the Cytron et al. minimal SSA
// construction), and renames every DFG node to its reaching definition's
// version.
func BuildSSA(cfg *flow.CFG, dfg *DFG) *SSA {
	doms := computeDominators(cfg)
	idom := immediateDominators(cfg, doms)
	domChildren := dominatorTreeChildren(cfg, idom)
	df := dominanceFrontiers(cfg, idom)

	hasPhi := placePhis(dfg.DefsByVariableBlock(), df)
	return rename(cfg, domChildren, dfg, hasPhi)
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
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

// computeDominators is the classic iterative data-flow fixpoint: dom(entry)
// = {entry}; dom(b) = {b} ∪ ⋂ dom(p) over every predecessor p, repeated
// until nothing changes.
func computeDominators(cfg *flow.CFG) map[int]map[int]bool {
	all := make(map[int]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		all[b.ID] = true
	}

	doms := make(map[int]map[int]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		if b.ID == cfg.Entry {
			doms[b.ID] = map[int]bool{b.ID: true}
		} else {
			doms[b.ID] = cloneSet(all)
		}
	}

	for changed := true; changed; {
		changed = false
		for _, b := range cfg.Blocks {
			if b.ID == cfg.Entry {
				continue
			}
			preds := cfg.Predecessors(b.ID)
			var next map[int]bool
			for i, p := range preds {
				if i == 0 {
					next = cloneSet(doms[p])
					continue
				}
				next = intersect(next, doms[p])
			}
			if next == nil {
				next = map[int]bool{}
			}
			next[b.ID] = true
			if !setEqual(next, doms[b.ID]) {
				doms[b.ID] = next
				changed = true
			}
		}
	}
	return doms
}

// immediateDominators picks, for each non-entry block, the strict
// dominator whose own dominator set is largest — the one closest to it on
// the path from entry, since strict dominators of a block form a chain.
func immediateDominators(cfg *flow.CFG, doms map[int]map[int]bool) map[int]int {
	idom := make(map[int]int, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		if b.ID == cfg.Entry {
			continue
		}
		best, bestLen := -1, -1
		for c := range doms[b.ID] {
			if c == b.ID {
				continue
			}
			if l := len(doms[c]); l > bestLen {
				bestLen, best = l, c
			}
		}
		if best != -1 {
			idom[b.ID] = best
		}
	}
	return idom
}

func dominatorTreeChildren(cfg *flow.CFG, idom map[int]int) map[int][]int {
	children := make(map[int][]int, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		if parent, ok := idom[b.ID]; ok {
			children[parent] = append(children[parent], b.ID)
		}
	}
	return children
}

// dominanceFrontiers is the standard Cytron, Ferrante, Rosen & Wegman
// algorithm: a join block b (>=2 predecessors) is in the frontier of every
// ancestor, along each predecessor's idom chain, up to (not including) b's
// own immediate dominator.
func dominanceFrontiers(cfg *flow.CFG, idom map[int]int) map[int]map[int]bool {
	df := make(map[int]map[int]bool, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		df[b.ID] = map[int]bool{}
	}
	for _, b := range cfg.Blocks {
		preds := cfg.Predecessors(b.ID)
		if len(preds) < 2 {
			continue
		}
		ib, hasIdom := idom[b.ID]
		for _, p := range preds {
			runner := p
			for {
				if hasIdom && runner == ib {
					break
				}
				df[runner][b.ID] = true
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

// placePhis runs the worklist phi-insertion algorithm: a variable defined
// in a set of blocks needs a phi at every block in their joint dominance
// frontier, and each inserted phi is itself treated as a new definition
// that may force further phis (the fixpoint in Cytron et al. §5).
func placePhis(defsByVarBlock map[string]map[int]bool, df map[int]map[int]bool) map[int]map[string]bool {
	hasPhi := make(map[int]map[string]bool)
	for _, v := range sortedVariables(defVars(defsByVarBlock)) {
		defBlocks := defsByVarBlock[v]
		worklist := make([]int, 0, len(defBlocks))
		for b := range defBlocks {
			worklist = append(worklist, b)
		}
		placed := map[int]bool{}
		for len(worklist) > 0 {
			b := worklist[0]
			worklist = worklist[1:]
			for f := range df[b] {
				if placed[f] {
					continue
				}
				placed[f] = true
				if hasPhi[f] == nil {
					hasPhi[f] = map[string]bool{}
				}
				hasPhi[f][v] = true
				if !defBlocks[f] {
					defBlocks[f] = true
					worklist = append(worklist, f)
				}
			}
		}
	}
	return hasPhi
}

func defVars(m map[string]map[int]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for v := range m {
		out[v] = true
	}
	return out
}

func sortedPhiVars(m map[string]*Phi) []string {
	out := make(map[string]bool, len(m))
	for v := range m {
		out[v] = true
	}
	return sortedVariables(out)
}

// rename performs the dominator-tree pre-order renaming pass: phi defs
// first, then each DFG node in program order within the block, pushing a
// fresh version on every def and resolving every use to the top of its
// variable's stack; phi operands in successor blocks are filled from the
// version live at the end of the predecessor; versions are popped back off
// on exit from the block's dominator-subtree, matching Cytron et al. §6.
func rename(cfg *flow.CFG, domChildren map[int][]int, dfg *DFG, hasPhi map[int]map[string]bool) *SSA {
	ssa := &SSA{Versions: make(map[int]SSAName, len(dfg.Nodes))}

	phiByBlockVar := make(map[int]map[string]*Phi)
	nextPhiID := 0
	for blockID, vars := range hasPhi {
		for _, v := range sortedVariables(vars) {
			nextPhiID++
			p := &Phi{ID: nextPhiID, Variable: v, BlockID: blockID, Operands: map[int]int{}}
			if phiByBlockVar[blockID] == nil {
				phiByBlockVar[blockID] = map[string]*Phi{}
			}
			phiByBlockVar[blockID][v] = p
			ssa.Phis = append(ssa.Phis, p)
		}
	}

	counters := make(map[string]int)
	stacks := make(map[string][]int)
	push := func(v string) int {
		counters[v]++
		ver := counters[v]
		stacks[v] = append(stacks[v], ver)
		return ver
	}
	top := func(v string) (int, bool) {
		s := stacks[v]
		if len(s) == 0 {
			return 0, false
		}
		return s[len(s)-1], true
	}
	pop := func(v string) {
		if s := stacks[v]; len(s) > 0 {
			stacks[v] = s[:len(s)-1]
		}
	}

	var walk func(blockID int)
	walk = func(blockID int) {
		var pushed []string

		if vars, ok := phiByBlockVar[blockID]; ok {
			for _, v := range sortedPhiVars(vars) {
				push(v)
				pushed = append(pushed, v)
			}
		}

		for _, n := range dfg.nodesInBlock(blockID) {
			if n.Kind == DFUse {
				if ver, ok := top(n.Variable); ok {
					ssa.Versions[n.ID] = SSAName{Variable: n.Variable, Version: ver}
				}
				continue
			}
			ver := push(n.Variable)
			pushed = append(pushed, n.Variable)
			ssa.Versions[n.ID] = SSAName{Variable: n.Variable, Version: ver}
		}

		for _, succ := range cfg.Successors(blockID) {
			if vars, ok := phiByBlockVar[succ]; ok {
				for v, phi := range vars {
					if ver, ok := top(v); ok {
						phi.Operands[blockID] = ver
					}
				}
			}
		}

		for _, child := range domChildren[blockID] {
			walk(child)
		}
		for _, v := range pushed {
			pop(v)
		}
	}
	walk(cfg.Entry)

	return ssa
}
