package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const typescriptDefinitionQuery = `
    (function_declaration name: (identifier) @function.name) @function
    (generator_function_declaration name: (identifier) @function.name) @function
    (method_definition name: (property_identifier) @method.name) @method
    (arrow_function) @function
    (function_expression name: (identifier) @function.name) @function
    (class_declaration name: (type_identifier) @class.name) @class
    (interface_declaration name: (type_identifier) @interface.name) @interface
    (type_alias_declaration name: (type_identifier) @type.name) @type
    (enum_declaration name: (identifier) @enum.name) @enum
    (export_statement declaration: (_) @export)
    (import_statement source: (string) @import.source) @import
`

type typescriptPlugin struct {
	*javascriptPluginBase
	lang  *tree_sitter.Language
	query *tree_sitter.Query
}

// javascriptPluginBase shares the control-flow classification with the JS
// plugin: TypeScript's statement/control-flow grammar is a superset of
// JavaScript's, so only the grammar and definition query differ.
type javascriptPluginBase struct {
	js parser.LanguagePlugin
}

// NewTypeScript constructs the TypeScript language plugin.
func NewTypeScript() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	q, _ := tree_sitter.NewQuery(lang, typescriptDefinitionQuery)
	return &typescriptPlugin{
		javascriptPluginBase: &javascriptPluginBase{js: NewJavaScript()},
		lang:                 lang,
		query:                q,
	}
}

func (p *typescriptPlugin) Name() string                      { return "typescript" }
func (p *typescriptPlugin) Extensions() []string               { return []string{".ts", ".tsx"} }
func (p *typescriptPlugin) Language() *tree_sitter.Language     { return p.lang }
func (p *typescriptPlugin) DefinitionQuery() *tree_sitter.Query { return p.query }

func (p *typescriptPlugin) IsStatementNode(nodeType string) bool {
	return p.js.IsStatementNode(nodeType)
}

func (p *typescriptPlugin) IsControlFlowNode(nodeType string) bool {
	return p.js.IsControlFlowNode(nodeType)
}

func (p *typescriptPlugin) ControlFlowType(nodeType string) parser.ControlFlowKind {
	return p.js.ControlFlowType(nodeType)
}

func (p *typescriptPlugin) IsChainedCondition(node *tree_sitter.Node) bool {
	return p.js.IsChainedCondition(node)
}

func (p *typescriptPlugin) BodyField(nodeType string) string {
	return p.js.BodyField(nodeType)
}

func (p *typescriptPlugin) AlternativeField(nodeType string) string {
	return p.js.AlternativeField(nodeType)
}

func (p *typescriptPlugin) ConditionField(nodeType string) string {
	return p.js.ConditionField(nodeType)
}
