// Package plugins implements the parser.LanguagePlugin contract (spec
// §4.1) for each tree-sitter grammar the module ships, grounded on the
// teacher's internal/parser/parser_language_setup.go query strings.
package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const goDefinitionQuery = `
    (function_declaration name: (identifier) @function.name) @function
    (method_declaration
        receiver: (parameter_list) @method.receiver
        name: (field_identifier) @method.name) @method
    (type_declaration
        (type_spec name: (type_identifier) @type.name)) @type
    (func_literal) @function
    (import_spec path: (interpreted_string_literal) @import.path) @import
`

type goPlugin struct {
	lang  *tree_sitter.Language
	query *tree_sitter.Query
}

// NewGo constructs the Go language plugin.
func NewGo() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_go.Language())
	q, _ := tree_sitter.NewQuery(lang, goDefinitionQuery)
	return &goPlugin{lang: lang, query: q}
}

func (p *goPlugin) Name() string                                { return "go" }
func (p *goPlugin) Extensions() []string                        { return []string{".go"} }
func (p *goPlugin) Language() *tree_sitter.Language              { return p.lang }
func (p *goPlugin) DefinitionQuery() *tree_sitter.Query          { return p.query }

func (p *goPlugin) IsStatementNode(nodeType string) bool {
	switch nodeType {
	case "short_var_declaration", "assignment_statement", "expression_statement",
		"return_statement", "go_statement", "defer_statement", "send_statement",
		"inc_dec_statement", "labeled_statement", "break_statement",
		"continue_statement", "fallthrough_statement":
		return true
	default:
		return false
	}
}

func (p *goPlugin) IsControlFlowNode(nodeType string) bool {
	switch nodeType {
	case "if_statement", "for_statement", "expression_switch_statement",
		"type_switch_statement", "select_statement":
		return true
	default:
		return false
	}
}

func (p *goPlugin) ControlFlowType(nodeType string) parser.ControlFlowKind {
	switch nodeType {
	case "if_statement":
		return parser.CFIf
	case "for_statement":
		return parser.CFLoop
	case "expression_switch_statement", "type_switch_statement", "select_statement":
		return parser.CFMatch
	case "return_statement":
		return parser.CFReturn
	case "break_statement":
		return parser.CFBreak
	case "continue_statement":
		return parser.CFContinue
	default:
		return parser.CFNone
	}
}

// IsChainedCondition: Go's grammar nests "else if" as an `if_statement`
// directly in the `alternative` field rather than wrapping it in a block,
// so any if_statement reached via that field is a chained condition.
func (p *goPlugin) IsChainedCondition(node *tree_sitter.Node) bool {
	if node == nil || node.Kind() != "if_statement" {
		return false
	}
	parent := node.Parent()
	if parent == nil {
		return false
	}
	return parent.Kind() == "if_statement"
}

func (p *goPlugin) BodyField(nodeType string) string {
	switch nodeType {
	case "if_statement":
		return "consequence"
	case "for_statement", "function_declaration", "method_declaration", "func_literal":
		return "body"
	default:
		return ""
	}
}

func (p *goPlugin) AlternativeField(nodeType string) string {
	if nodeType == "if_statement" {
		return "alternative"
	}
	return ""
}

func (p *goPlugin) ConditionField(nodeType string) string {
	switch nodeType {
	case "if_statement", "for_statement":
		return "condition"
	default:
		return ""
	}
}
