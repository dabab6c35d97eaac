package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const cppDefinitionQuery = `
    (function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
    (class_specifier name: (type_identifier) @class.name) @class
    (struct_specifier name: (type_identifier) @struct.name) @struct
    (enum_specifier name: (type_identifier) @enum.name) @enum
    (namespace_definition) @namespace
    (preproc_include) @import
    (using_declaration) @import
`

var cppTable = classificationTable{
	statements: map[string]bool{
		"expression_statement": true, "declaration": true, "return_statement": true,
	},
	controlFlow: map[string]parser.ControlFlowKind{
		"if_statement":      parser.CFIf,
		"for_statement":     parser.CFLoop,
		"while_statement":   parser.CFLoop,
		"do_statement":      parser.CFLoop,
		"switch_statement":  parser.CFMatch,
		"try_statement":     parser.CFTry,
		"return_statement":  parser.CFReturn,
		"break_statement":   parser.CFBreak,
		"continue_statement": parser.CFContinue,
		"throw_statement":   parser.CFRaise,
	},
	bodyField: map[string]string{
		"if_statement": "consequence", "for_statement": "body",
		"while_statement": "body", "function_definition": "body",
	},
	altField:  map[string]string{"if_statement": "alternative"},
	condField: map[string]string{"if_statement": "condition", "while_statement": "condition"},
	chainedIfKey: "if_statement",
}

// NewCpp constructs the C/C++ language plugin. One grammar covers every
// C/C++ extension, matching the teacher's setupCpp behavior.
func NewCpp() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	q, _ := tree_sitter.NewQuery(lang, cppDefinitionQuery)
	exts := []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"}
	return &genericPlugin{name: "cpp", exts: exts, lang: lang, query: q, table: cppTable}
}
