package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const javaDefinitionQuery = `
    (method_declaration name: (identifier) @method.name) @method
    (constructor_declaration name: (identifier) @constructor.name) @constructor
    (class_declaration name: (identifier) @class.name) @class
    (record_declaration name: (identifier) @class.name) @class
    (interface_declaration name: (identifier) @interface.name) @interface
    (enum_declaration name: (identifier) @enum.name) @enum
    (field_declaration declarator: (variable_declarator name: (identifier) @field.name)) @field
    (import_declaration) @import
    (package_declaration) @package
    (annotation_type_declaration name: (identifier) @annotation.name) @annotation
`

var javaTable = classificationTable{
	statements: map[string]bool{
		"expression_statement": true, "local_variable_declaration": true, "return_statement": true,
	},
	controlFlow: map[string]parser.ControlFlowKind{
		"if_statement":       parser.CFIf,
		"for_statement":      parser.CFLoop,
		"enhanced_for_statement": parser.CFLoop,
		"while_statement":    parser.CFLoop,
		"do_statement":       parser.CFLoop,
		"switch_expression":  parser.CFMatch,
		"try_statement":      parser.CFTry,
		"return_statement":   parser.CFReturn,
		"break_statement":    parser.CFBreak,
		"continue_statement": parser.CFContinue,
		"throw_statement":    parser.CFRaise,
	},
	bodyField: map[string]string{
		"if_statement": "consequence", "for_statement": "body",
		"while_statement": "body", "method_declaration": "body",
	},
	altField:     map[string]string{"if_statement": "alternative"},
	condField:    map[string]string{"if_statement": "condition", "while_statement": "condition"},
	chainedIfKey: "if_statement",
}

// NewJava constructs the Java language plugin.
func NewJava() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_java.Language())
	q, _ := tree_sitter.NewQuery(lang, javaDefinitionQuery)
	return &genericPlugin{name: "java", exts: []string{".java"}, lang: lang, query: q, table: javaTable}
}
