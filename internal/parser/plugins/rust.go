package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const rustDefinitionQuery = `
    (impl_item
        body: (declaration_list
            (function_item name: (identifier) @method.name))) @method
    (trait_item
        body: (declaration_list
            (function_item name: (identifier) @method.name))) @method
    (function_item name: (identifier) @function.name) @function
    (struct_item name: (type_identifier) @struct.name) @struct
    (enum_item name: (type_identifier) @enum.name) @enum
    (trait_item name: (type_identifier) @interface.name) @interface
    (type_item name: (type_identifier) @type.name) @type
    (use_declaration) @import
    (mod_item name: (identifier) @module.name) @module
`

var rustTable = classificationTable{
	statements: map[string]bool{
		"expression_statement": true, "let_declaration": true,
	},
	controlFlow: map[string]parser.ControlFlowKind{
		"if_expression":       parser.CFIf,
		"if_let_expression":   parser.CFIf,
		"loop_expression":     parser.CFLoop,
		"while_expression":    parser.CFLoop,
		"for_expression":      parser.CFLoop,
		"match_expression":    parser.CFMatch,
		"return_expression":   parser.CFReturn,
		"break_expression":    parser.CFBreak,
		"continue_expression": parser.CFContinue,
	},
	bodyField: map[string]string{
		"if_expression": "consequence", "while_expression": "body",
		"for_expression": "body", "loop_expression": "body",
		"function_item": "body",
	},
	altField: map[string]string{"if_expression": "alternative"},
	condField: map[string]string{
		"if_expression": "condition", "while_expression": "condition",
	},
	chainedIfKey: "if_expression",
}

// NewRust constructs the Rust language plugin.
func NewRust() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_rust.Language())
	q, _ := tree_sitter.NewQuery(lang, rustDefinitionQuery)
	return &genericPlugin{name: "rust", exts: []string{".rs"}, lang: lang, query: q, table: rustTable}
}
