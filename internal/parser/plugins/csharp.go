package plugins

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/codegraph-ir/codegraph/internal/parser"
)

const csharpDefinitionQuery = `
    (method_declaration name: (identifier) @method.name) @method
    (constructor_declaration name: (identifier) @constructor.name) @constructor
    (class_declaration name: (identifier) @class.name) @class
    (interface_declaration name: (identifier) @interface.name) @interface
    (struct_declaration name: (identifier) @struct.name) @struct
    (record_declaration name: (identifier) @record.name) @record
    (enum_declaration name: (identifier) @enum.name) @enum
    (property_declaration name: (identifier) @property.name) @property
    (field_declaration
        (variable_declaration
            (variable_declarator (identifier) @field.name))) @field
    (using_directive (qualified_name) @using.name) @using
    (using_directive (identifier) @using.name) @using
    (namespace_declaration name: (qualified_name) @namespace.name) @namespace
    (namespace_declaration name: (identifier) @namespace.name) @namespace
    (delegate_declaration name: (identifier) @delegate.name) @delegate
    (event_field_declaration
        (variable_declaration
            (variable_declarator (identifier) @event.name))) @event
`

var csharpTable = classificationTable{
	statements: map[string]bool{
		"expression_statement": true, "local_declaration_statement": true, "return_statement": true,
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

// NewCSharp constructs the C# language plugin.
func NewCSharp() parser.LanguagePlugin {
	lang := tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	q, _ := tree_sitter.NewQuery(lang, csharpDefinitionQuery)
	return &genericPlugin{name: "csharp", exts: []string{".cs"}, lang: lang, query: q, table: csharpTable}
}
