package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const pythonDefinitionQuery = `
    (class_definition
        body: (block
            (function_definition name: (identifier) @method.name))) @method
    (function_definition name: (identifier) @function.name) @function
    (class_definition name: (identifier) @class.name) @class
    (import_statement) @import
    (import_from_statement) @import
`

type pythonPlugin struct {
	lang  *tree_sitter.Language
	query *tree_sitter.Query
}

// NewPython constructs the Python language plugin.
func NewPython() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_python.Language())
	q, _ := tree_sitter.NewQuery(lang, pythonDefinitionQuery)
	return &pythonPlugin{lang: lang, query: q}
}

func (p *pythonPlugin) Name() string                       { return "python" }
func (p *pythonPlugin) Extensions() []string                { return []string{".py"} }
func (p *pythonPlugin) Language() *tree_sitter.Language      { return p.lang }
func (p *pythonPlugin) DefinitionQuery() *tree_sitter.Query  { return p.query }

func (p *pythonPlugin) IsStatementNode(nodeType string) bool {
	switch nodeType {
	case "expression_statement", "assignment", "augmented_assignment",
		"return_statement", "raise_statement", "pass_statement",
		"break_statement", "continue_statement", "global_statement",
		"nonlocal_statement", "delete_statement", "assert_statement",
		"yield_statement":
		return true
	default:
		return false
	}
}

func (p *pythonPlugin) IsControlFlowNode(nodeType string) bool {
	switch nodeType {
	case "if_statement", "for_statement", "while_statement",
		"try_statement", "match_statement", "with_statement":
		return true
	default:
		return false
	}
}

func (p *pythonPlugin) ControlFlowType(nodeType string) parser.ControlFlowKind {
	switch nodeType {
	case "if_statement":
		return parser.CFIf
	case "for_statement", "while_statement":
		return parser.CFLoop
	case "match_statement":
		return parser.CFMatch
	case "try_statement":
		return parser.CFTry
	case "return_statement":
		return parser.CFReturn
	case "raise_statement":
		return parser.CFRaise
	case "break_statement":
		return parser.CFBreak
	case "continue_statement":
		return parser.CFContinue
	case "yield_statement", "yield":
		return parser.CFYield
	default:
		return parser.CFNone
	}
}

// IsChainedCondition: Python's grammar represents "elif" as an
// `elif_clause` sibling of the `if_statement`, never as a nested
// `if_statement` inside the alternative field — so a nested if_statement
// reached through an `else_clause` is always a genuinely new if, never a
// chained elif. This plugin therefore returns false for every
// if_statement; elif detection happens structurally, by the builder
// walking `elif_clause` nodes directly instead of recursing into nested
// if_statements (spec §4.1 invariant).
func (p *pythonPlugin) IsChainedCondition(node *tree_sitter.Node) bool {
	return false
}

func (p *pythonPlugin) BodyField(nodeType string) string {
	switch nodeType {
	case "if_statement":
		return "consequence"
	case "for_statement", "while_statement", "with_statement":
		return "body"
	case "function_definition", "class_definition":
		return "body"
	case "try_statement":
		return "body"
	default:
		return ""
	}
}

func (p *pythonPlugin) AlternativeField(nodeType string) string {
	if nodeType == "if_statement" {
		return "alternative"
	}
	return ""
}

func (p *pythonPlugin) ConditionField(nodeType string) string {
	switch nodeType {
	case "if_statement", "while_statement":
		return "condition"
	default:
		return ""
	}
}
