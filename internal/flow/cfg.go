// Package flow builds the per-function basic flow graph (BFG/CFG) of
// spec §4.4: a visitor over the function body that groups statements into
// blocks, recurses into control-flow bodies and alternatives, and wraps
// the result with synthetic ENTRY/EXIT blocks.
package flow

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph-ir/codegraph/internal/parser"
	"github.com/codegraph-ir/codegraph/internal/types"
)

// BlockKind classifies a CFG block.
type BlockKind uint8

const (
	BlockEntry BlockKind = iota
	BlockExit
	BlockNormal
	BlockLoopHeader
)

func (k BlockKind) String() string {
	switch k {
	case BlockEntry:
		return "ENTRY"
	case BlockExit:
		return "EXIT"
	case BlockLoopHeader:
		return "LOOP_HEADER"
	default:
		return "NORMAL"
	}
}

// Block is one node of the CFG.
type Block struct {
	ID             int
	Kind           BlockKind
	Span           types.Span
	StatementCount int
}

// CFGEdgeKind classifies a CFG edge; LoopBack marks a back-edge into a
// loop header, used downstream for loop detection (spec §4.4, §4.10).
type CFGEdgeKind uint8

const (
	EdgeNormal CFGEdgeKind = iota
	EdgeLoopBack
)

// CFGEdge is a directed successor relation between two blocks.
type CFGEdge struct {
	From int
	To   int
	Kind CFGEdgeKind
}

// CFG is one function's control-flow graph.
type CFG struct {
	Blocks      []Block
	Edges       []CFGEdge
	Entry, Exit int
}

// Successors returns every block id reachable by a direct CFG edge from id.
func (c *CFG) Successors(id int) []int {
	var out []int
	for _, e := range c.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns every block id with a direct CFG edge into id.
func (c *CFG) Predecessors(id int) []int {
	var out []int
	for _, e := range c.Edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// LoopHeaders returns the block ids of every loop header — found either
// by BlockLoopHeader kind or by being the target of a LoopBack edge,
// matching spec §4.10's "via LoopBack edges or LOOP_HEADER kind".
func (c *CFG) LoopHeaders() []int {
	seen := make(map[int]bool)
	var out []int
	for _, b := range c.Blocks {
		if b.Kind == BlockLoopHeader && !seen[b.ID] {
			seen[b.ID] = true
			out = append(out, b.ID)
		}
	}
	for _, e := range c.Edges {
		if e.Kind == EdgeLoopBack && !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// CyclomaticComplexity is #decisions + 1 (spec §4.4), computed via the
// standard E - N + 2P formula for a single-entry/exit graph (P=1
// connected component), which is equivalent for a structured CFG.
func (c *CFG) CyclomaticComplexity() int {
	return len(c.Edges) - len(c.Blocks) + 2
}

// StmtVisitor is called once per statement (and once per control-flow
// header node) as BuildVisit assigns it to a block, letting a caller
// build a block-aligned structure — internal/dataflow's DFG — in
// lockstep with the CFG instead of re-deriving block boundaries itself.
type StmtVisitor func(stmt *tree_sitter.Node, blockID int)

type builder struct {
	plugin parser.LanguagePlugin
	cfg    *CFG
	visit  StmtVisitor
}

// Build constructs the CFG for one function/method definition node.
func Build(plugin parser.LanguagePlugin, funcNode tree_sitter.Node) *CFG {
	return BuildVisit(plugin, funcNode, nil)
}

// BuildVisit is Build plus a per-statement callback; see StmtVisitor.
func BuildVisit(plugin parser.LanguagePlugin, funcNode tree_sitter.Node, visit StmtVisitor) *CFG {
	b := &builder{plugin: plugin, cfg: &CFG{}, visit: visit}

	entry := b.newBlock(BlockEntry, spanOf(&funcNode))
	exit := b.newBlock(BlockExit, spanOf(&funcNode))
	b.cfg.Entry = entry
	b.cfg.Exit = exit

	var bodyNode *tree_sitter.Node
	if field := plugin.BodyField(funcNode.Kind()); field != "" {
		bodyNode = funcNode.ChildByFieldName(field)
	}
	if bodyNode == nil {
		b.addEdge(entry, exit, EdgeNormal)
		return b.cfg
	}

	tails := b.walkBody(*bodyNode, []int{entry})
	for _, id := range tails {
		b.addEdge(id, exit, EdgeNormal)
	}
	return b.cfg
}

type blockAccum struct {
	span  types.Span
	count int
	stmts []*tree_sitter.Node
}

// walkBody groups bodyNode's direct statement children into blocks,
// recursing into control-flow children, and returns the set of block ids
// execution can be at once the body finishes (usually one, more than one
// after an if/else with no fallthrough merge performed here — merging
// happens naturally at the caller, which feeds all of them as preds of
// whatever follows).
func (b *builder) walkBody(body tree_sitter.Node, preds []int) []int {
	var current *blockAccum

	flush := func() {
		if current == nil || current.count == 0 {
			return
		}
		id := b.newBlock(BlockNormal, current.span)
		b.cfg.Blocks[id].StatementCount = current.count
		for _, p := range preds {
			b.addEdge(p, id, EdgeNormal)
		}
		if b.visit != nil {
			for _, s := range current.stmts {
				b.visit(s, id)
			}
		}
		preds = []int{id}
		current = nil
	}

	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		stmt := body.Child(uint(i))
		if stmt == nil {
			continue
		}
		kind := stmt.Kind()

		if b.plugin.IsControlFlowNode(kind) {
			flush()
			preds = b.walkControlFlow(*stmt, preds)
			continue
		}
		if !b.plugin.IsStatementNode(kind) {
			continue
		}
		if current == nil {
			sp := spanOf(stmt)
			current = &blockAccum{span: sp}
		} else {
			current.span = mergeSpan(current.span, spanOf(stmt))
		}
		current.count++
		current.stmts = append(current.stmts, stmt)
	}
	flush()
	return preds
}

// walkControlFlow emits a header block for one control-flow node, recurses
// into its body (tagging loop back-edges) and its alternative (a sibling
// block, or a chained elif reached recursively), and returns the set of
// exit points that flow past this construct.
func (b *builder) walkControlFlow(node tree_sitter.Node, preds []int) []int {
	kind := node.Kind()
	cfKind := b.plugin.ControlFlowType(kind)

	blockKind := BlockNormal
	if cfKind == parser.CFLoop {
		blockKind = BlockLoopHeader
	}
	header := b.newBlock(blockKind, spanOf(&node))
	for _, p := range preds {
		b.addEdge(p, header, EdgeNormal)
	}
	if b.visit != nil {
		// Visit only the condition, never the whole node: its body and
		// alternative are walked (and visited) separately below, each
		// tagged with their own block id.
		if field := b.plugin.ConditionField(kind); field != "" {
			if cond := node.ChildByFieldName(field); cond != nil {
				b.visit(cond, header)
			}
		}
	}

	var out []int

	if field := b.plugin.BodyField(kind); field != "" {
		if bodyNode := node.ChildByFieldName(field); bodyNode != nil {
			tails := b.walkBody(*bodyNode, []int{header})
			if cfKind == parser.CFLoop {
				for _, t := range tails {
					b.addEdge(t, header, EdgeLoopBack)
				}
				out = append(out, header) // loop condition false: fall through
			} else {
				out = append(out, tails...)
			}
		}
	}

	if field := b.plugin.AlternativeField(kind); field != "" {
		if altNode := node.ChildByFieldName(field); altNode != nil {
			if b.plugin.IsControlFlowNode(altNode.Kind()) && b.plugin.IsChainedCondition(altNode) {
				out = append(out, b.walkControlFlow(*altNode, []int{header})...)
			} else {
				out = append(out, b.walkBody(*altNode, []int{header})...)
			}
		} else if cfKind != parser.CFLoop {
			out = append(out, header) // no else: falls straight through
		}
	} else if cfKind != parser.CFLoop {
		out = append(out, header)
	}

	return out
}

func (b *builder) newBlock(kind BlockKind, span types.Span) int {
	id := len(b.cfg.Blocks)
	b.cfg.Blocks = append(b.cfg.Blocks, Block{ID: id, Kind: kind, Span: span})
	return id
}

func (b *builder) addEdge(from, to int, kind CFGEdgeKind) {
	b.cfg.Edges = append(b.cfg.Edges, CFGEdge{From: from, To: to, Kind: kind})
}

func spanOf(n *tree_sitter.Node) types.Span {
	sp := n.StartPosition()
	ep := n.EndPosition()
	return types.Span{
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column),
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column),
	}
}

func mergeSpan(a, b types.Span) types.Span {
	out := a
	if b.EndLine > out.EndLine || (b.EndLine == out.EndLine && b.EndCol > out.EndCol) {
		out.EndLine, out.EndCol = b.EndLine, b.EndCol
	}
	return out
}
