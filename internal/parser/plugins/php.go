package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const phpDefinitionQuery = `
    (class_declaration name: (name) @class.name) @class
    (interface_declaration name: (name) @interface.name) @interface
    (trait_declaration name: (name) @trait.name) @trait
    (enum_declaration name: (name) @enum.name) @enum
    (function_definition name: (name) @function.name) @function
    (method_declaration name: (name) @method.name) @method
    (namespace_definition name: (namespace_name) @namespace.name) @namespace
    (namespace_use_declaration) @import
    (property_declaration) @property
    (const_declaration) @constant
`

var phpTable = classificationTable{
	statements: map[string]bool{
		"expression_statement": true, "return_statement": true,
	},
	controlFlow: map[string]parser.ControlFlowKind{
		"if_statement":       parser.CFIf,
		"for_statement":      parser.CFLoop,
		"foreach_statement":  parser.CFLoop,
		"while_statement":    parser.CFLoop,
		"do_statement":       parser.CFLoop,
		"switch_statement":   parser.CFMatch,
		"try_statement":      parser.CFTry,
		"return_statement":   parser.CFReturn,
		"break_statement":    parser.CFBreak,
		"continue_statement": parser.CFContinue,
		"throw_expression":   parser.CFRaise,
	},
	bodyField: map[string]string{
		"if_statement": "body", "for_statement": "body",
		"while_statement": "body", "function_definition": "body",
	},
	condField:    map[string]string{"if_statement": "condition", "while_statement": "condition"},
	chainedIfKey: "if_statement",
}

// NewPHP constructs the PHP language plugin.
func NewPHP() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	q, _ := tree_sitter.NewQuery(lang, phpDefinitionQuery)
	return &genericPlugin{name: "php", exts: []string{".php", ".phtml"}, lang: lang, query: q, table: phpTable}
}
