package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const javascriptDefinitionQuery = `
    (function_declaration name: (identifier) @function.name) @function
    (generator_function_declaration name: (identifier) @function.name) @function
    (variable_declarator
        name: (identifier) @function.name
        value: [(arrow_function) (function_expression) (generator_function)]) @function
    (variable_declarator
        name: (identifier) @variable.name
        value: (_) @variable.value) @variable
    (method_definition name: (property_identifier) @method.name) @method
    (class_declaration name: (identifier) @class.name) @class
    (export_statement declaration: (_) @export)
    (import_statement source: (string) @import.source) @import
`

type javascriptPlugin struct {
	lang  *tree_sitter.Language
	query *tree_sitter.Query
}

// NewJavaScript constructs the JavaScript language plugin.
func NewJavaScript() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	q, _ := tree_sitter.NewQuery(lang, javascriptDefinitionQuery)
	return &javascriptPlugin{lang: lang, query: q}
}

func (p *javascriptPlugin) Name() string                      { return "javascript" }
func (p *javascriptPlugin) Extensions() []string               { return []string{".js", ".jsx"} }
func (p *javascriptPlugin) Language() *tree_sitter.Language     { return p.lang }
func (p *javascriptPlugin) DefinitionQuery() *tree_sitter.Query { return p.query }

func (p *javascriptPlugin) IsStatementNode(nodeType string) bool {
	switch nodeType {
	case "expression_statement", "return_statement", "throw_statement",
		"break_statement", "continue_statement", "lexical_declaration",
		"variable_declaration":
		return true
	default:
		return false
	}
}

func (p *javascriptPlugin) IsControlFlowNode(nodeType string) bool {
	switch nodeType {
	case "if_statement", "for_statement", "for_in_statement",
		"while_statement", "do_statement", "switch_statement",
		"try_statement":
		return true
	default:
		return false
	}
}

func (p *javascriptPlugin) ControlFlowType(nodeType string) parser.ControlFlowKind {
	switch nodeType {
	case "if_statement":
		return parser.CFIf
	case "for_statement", "for_in_statement", "while_statement", "do_statement":
		return parser.CFLoop
	case "switch_statement":
		return parser.CFMatch
	case "try_statement":
		return parser.CFTry
	case "return_statement":
		return parser.CFReturn
	case "throw_statement":
		return parser.CFRaise
	case "break_statement":
		return parser.CFBreak
	case "continue_statement":
		return parser.CFContinue
	case "yield_expression":
		return parser.CFYield
	default:
		return parser.CFNone
	}
}

// IsChainedCondition: "else if" in the JS/TS grammar is an if_statement
// nested directly in the alternative field (no intervening block), same
// shape as Go's.
func (p *javascriptPlugin) IsChainedCondition(node *tree_sitter.Node) bool {
	if node == nil || node.Kind() != "if_statement" {
		return false
	}
	parent := node.Parent()
	return parent != nil && parent.Kind() == "if_statement"
}

func (p *javascriptPlugin) BodyField(nodeType string) string {
	switch nodeType {
	case "if_statement":
		return "consequence"
	case "for_statement", "for_in_statement", "while_statement",
		"function_declaration", "method_definition", "arrow_function":
		return "body"
	default:
		return ""
	}
}

func (p *javascriptPlugin) AlternativeField(nodeType string) string {
	if nodeType == "if_statement" {
		return "alternative"
	}
	return ""
}

func (p *javascriptPlugin) ConditionField(nodeType string) string {
	switch nodeType {
	case "if_statement", "while_statement", "do_statement":
		return "condition"
	default:
		return ""
	}
}
