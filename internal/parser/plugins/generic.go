package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

// classificationTable maps AST node-type names to their control-flow
// classification for languages whose control-flow grammar is a close
// structural match to the C family (condition/consequence/alternative
// fields on an if-like node, a body field on loops).
type classificationTable struct {
	statements   map[string]bool
	controlFlow  map[string]parser.ControlFlowKind
	bodyField    map[string]string
	altField     map[string]string
	condField    map[string]string
	chainedIfKey string // AST type whose parent-is-same-type means "chained"; "" disables the check
}

// genericPlugin implements parser.LanguagePlugin from a compiled grammar,
// a definition query and a classificationTable. It backs every language
// plugin that doesn't need bespoke elif/control-flow handling beyond the
// C-family shape (rust, cpp, java, csharp, php, zig).
type genericPlugin struct {
	name  string
	exts  []string
	lang  *tree_sitter.Language
	query *tree_sitter.Query
	table classificationTable
}

func (p *genericPlugin) Name() string                      { return p.name }
func (p *genericPlugin) Extensions() []string               { return p.exts }
func (p *genericPlugin) Language() *tree_sitter.Language     { return p.lang }
func (p *genericPlugin) DefinitionQuery() *tree_sitter.Query { return p.query }

func (p *genericPlugin) IsStatementNode(nodeType string) bool  { return p.table.statements[nodeType] }
func (p *genericPlugin) IsControlFlowNode(nodeType string) bool {
	_, ok := p.table.controlFlow[nodeType]
	return ok
}
func (p *genericPlugin) ControlFlowType(nodeType string) parser.ControlFlowKind {
	return p.table.controlFlow[nodeType]
}
func (p *genericPlugin) BodyField(nodeType string) string        { return p.table.bodyField[nodeType] }
func (p *genericPlugin) AlternativeField(nodeType string) string { return p.table.altField[nodeType] }
func (p *genericPlugin) ConditionField(nodeType string) string   { return p.table.condField[nodeType] }

func (p *genericPlugin) IsChainedCondition(node *tree_sitter.Node) bool {
	if node == nil || p.table.chainedIfKey == "" {
		return false
	}
	if node.Kind() != p.table.chainedIfKey {
		return false
	}
	parent := node.Parent()
	return parent != nil && parent.Kind() == p.table.chainedIfKey
}
