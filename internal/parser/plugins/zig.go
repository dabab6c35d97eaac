package plugins

import (
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const zigDefinitionQuery = `
    (function_declaration (identifier) @function.name) @function
    (variable_declaration
      (identifier) @struct.name
      (struct_declaration) @struct)
    (variable_declaration
      (identifier) @struct.name
      (union_declaration) @struct)
`

var zigTable = classificationTable{
	statements: map[string]bool{"expression_statement": true},
	controlFlow: map[string]parser.ControlFlowKind{
		"if_statement":    parser.CFIf,
		"if_expression":   parser.CFIf,
		"for_statement":   parser.CFLoop,
		"for_expression":  parser.CFLoop,
		"while_statement":  parser.CFLoop,
		"while_expression": parser.CFLoop,
		"switch_expression": parser.CFMatch,
		"break_statement":  parser.CFBreak,
		"continue_statement": parser.CFContinue,
	},
	bodyField: map[string]string{},
	condField: map[string]string{},
}

// NewZig constructs the Zig language plugin. Zig has no official
// go-tree-sitter-org grammar package; this is the community grammar the
// teacher sources via tree-sitter-grammars/tree-sitter-zig.
func NewZig() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_zig.Language())
	q, _ := tree_sitter.NewQuery(lang, zigDefinitionQuery)
	return &genericPlugin{name: "zig", exts: []string{".zig"}, lang: lang, query: q, table: zigTable}
}
