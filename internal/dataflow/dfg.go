// Package dataflow builds the per-function data-flow graph (DFG, L6) and
// its SSA form (L7) described in spec §4.5, on top of internal/flow's CFG.
//
// Def/use extraction reuses the same grammar-convention heuristics
// internal/irbuilder uses for Writes/Reads edges (assignment/declarator
// node kinds, writeTargetIdentifier), kept as a small local copy here
// rather than exported from irbuilder since the two packages classify at
// different granularities: irbuilder resolves to FQNs across the whole
// function body, this package only needs the bare variable name and the
// block it occurs in.
package dataflow

import (
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph-ir/codegraph/internal/flow"
	"github.com/codegraph-ir/codegraph/internal/parser"
	"github.com/codegraph-ir/codegraph/internal/types"
)

// DFKind distinguishes a definition from a use in the DFG.
type DFKind uint8

const (
	DFDef DFKind = iota
	DFUse
)

// DFNode is one definition or use of a variable, located in a CFG block.
type DFNode struct {
	ID       int
	Kind     DFKind
	Variable string
	BlockID  int
	Span     types.Span
}

// DFEdge is a def-use link: a use reached by a definition with no
// intervening redefinition in program order (spec §4.5).
type DFEdge struct {
	Def int
	Use int
}

// DFG is one function's data-flow graph.
type DFG struct {
	Nodes []DFNode
	Edges []DFEdge
}

func (g *DFG) nodesInBlock(blockID int) []DFNode {
	var out []DFNode
	for _, n := range g.Nodes {
		if n.BlockID == blockID {
			out = append(out, n)
		}
	}
	return out
}

// DefsByVariableBlock groups this DFG's Def nodes by variable, then by the
// block they occur in — the input placePhis needs.
func (g *DFG) DefsByVariableBlock() map[string]map[int]bool {
	out := make(map[string]map[int]bool)
	for _, n := range g.Nodes {
		if n.Kind != DFDef {
			continue
		}
		if out[n.Variable] == nil {
			out[n.Variable] = map[int]bool{}
		}
		out[n.Variable][n.BlockID] = true
	}
	return out
}

type dfgBuilder struct {
	content []byte
	dfg     *DFG
}

// Build constructs the CFG and DFG for one function/method node together,
// in lockstep, via internal/flow's StmtVisitor hook — guaranteeing DFG
// nodes are tagged with the CFG block id they actually belong to.
func Build(plugin parser.LanguagePlugin, funcNode tree_sitter.Node, content []byte) (*flow.CFG, *DFG) {
	b := &dfgBuilder{content: content, dfg: &DFG{}}
	cfg := flow.BuildVisit(plugin, funcNode, b.visitStmt)
	b.linkDefUse()
	return cfg, b.dfg
}

func (b *dfgBuilder) visitStmt(stmt *tree_sitter.Node, blockID int) {
	if stmt == nil {
		return
	}
	var defTarget *tree_sitter.Node
	kind := stmt.Kind()
	if isAssignmentNode(kind) || isDeclaratorNode(kind) {
		defTarget = writeTargetIdentifier(stmt)
	}

	var walk func(n tree_sitter.Node)
	walk = func(n tree_sitter.Node) {
		k := n.Kind()
		if isIdentifierKind(k) {
			name := b.text(&n)
			if name == "" || name == "_" {
				return
			}
			id := len(b.dfg.Nodes)
			dfKind := DFUse
			if defTarget != nil && n.StartByte() == defTarget.StartByte() {
				dfKind = DFDef
			}
			b.dfg.Nodes = append(b.dfg.Nodes, DFNode{
				ID: id, Kind: dfKind, Variable: name, BlockID: blockID, Span: spanOf(&n),
			})
			return
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if c := n.Child(uint(i)); c != nil {
				walk(*c)
			}
		}
	}
	walk(*stmt)
}

// linkDefUse connects each use to the nearest preceding def of the same
// variable in program order (the flat L6 def-use view; SSA phi placement
// in ssa.go refines this across branches using the CFG's structure).
func (b *dfgBuilder) linkDefUse() {
	last := make(map[string]int)
	for _, n := range b.dfg.Nodes {
		switch n.Kind {
		case DFDef:
			last[n.Variable] = n.ID
		case DFUse:
			if def, ok := last[n.Variable]; ok {
				b.dfg.Edges = append(b.dfg.Edges, DFEdge{Def: def, Use: n.ID})
			}
		}
	}
}

func (b *dfgBuilder) text(n *tree_sitter.Node) string {
	return string(b.content[n.StartByte():n.EndByte()])
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

func writeTargetIdentifier(n *tree_sitter.Node) *tree_sitter.Node {
	for _, field := range []string{"left", "name", "target"} {
		if c := n.ChildByFieldName(field); c != nil {
			if id := firstIdentifierDescendant(c); id != nil {
				return id
			}
		}
	}
	return firstIdentifierDescendant(n)
}

func firstIdentifierDescendant(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	if isIdentifierKind(n.Kind()) {
		return n
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if c := n.Child(uint(i)); c != nil {
			if found := firstIdentifierDescendant(c); found != nil {
				return found
			}
		}
	}
	return nil
}

func isIdentifierKind(kind string) bool {
	switch kind {
	case "identifier", "field_identifier", "type_identifier", "property_identifier", "name":
		return true
	default:
		return false
	}
}

func isAssignmentNode(kind string) bool {
	switch kind {
	case "assignment_statement", "assignment", "assignment_expression",
		"augmented_assignment", "short_var_declaration":
		return true
	default:
		return false
	}
}

func isDeclaratorNode(kind string) bool {
	switch kind {
	case "var_declaration", "const_declaration", "variable_declarator",
		"lexical_declaration", "variable_declaration":
		return true
	default:
		return false
	}
}

// sortedVariables is a small helper shared by ssa.go's deterministic
// phi-insertion ordering.
func sortedVariables(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
