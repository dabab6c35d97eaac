package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ControlFlowKind classifies a control-flow AST node for the CFG builder
// (spec §4.1, §4.4).
type ControlFlowKind uint8

const (
	CFNone ControlFlowKind = iota
	CFIf
	CFLoop
	CFMatch
	CFTry
	CFYield
	CFReturn
	CFBreak
	CFContinue
	CFRaise
)

func (k ControlFlowKind) String() string {
	switch k {
	case CFIf:
		return "If"
	case CFLoop:
		return "Loop"
	case CFMatch:
		return "Match"
	case CFTry:
		return "Try"
	case CFYield:
		return "Yield"
	case CFReturn:
		return "Return"
	case CFBreak:
		return "Break"
	case CFContinue:
		return "Continue"
	case CFRaise:
		return "Raise"
	default:
		return "None"
	}
}

// LanguagePlugin is the contract each supported language satisfies so the
// L1 IR builder (internal/irbuilder) can walk its AST without language-
// specific branches in the builder itself (spec §4.1).
//
// A plugin owns no mutable state beyond its compiled tree-sitter Language
// and Query; one instance is shared across all files of that language.
type LanguagePlugin interface {
	// Name is the canonical language identifier ("go", "python", …).
	Name() string

	// Extensions lists the file extensions this plugin parses.
	Extensions() []string

	// Language returns the compiled tree-sitter grammar.
	Language() *tree_sitter.Language

	// DefinitionQuery returns the capture query the irbuilder uses to find
	// symbol-defining nodes (functions, classes, methods, …).
	DefinitionQuery() *tree_sitter.Query

	// IsStatementNode reports whether a node of this AST type is a
	// statement (as opposed to an expression or declaration fragment).
	IsStatementNode(nodeType string) bool

	// IsControlFlowNode reports whether a node of this AST type starts a
	// new CFG block.
	IsControlFlowNode(nodeType string) bool

	// ControlFlowType classifies a control-flow node's AST type.
	ControlFlowType(nodeType string) ControlFlowKind

	// IsChainedCondition reports whether an "if" node is a chained
	// alternative (Python/Go `elif`-equivalent embedded directly in the
	// grammar) rather than a freshly nested if inside an else block. This
	// distinguishes `elif` chains from `else { if ... }` (spec §4.1
	// invariant).
	IsChainedCondition(node *tree_sitter.Node) bool

	// BodyField / AlternativeField / ConditionField name the tree-sitter
	// field used to reach a control-flow node's body, else-branch and
	// condition expression respectively, for nodes where those fields
	// exist (returns "" if not applicable to nodeType).
	BodyField(nodeType string) string
	AlternativeField(nodeType string) string
	ConditionField(nodeType string) string
}

// Registry resolves a LanguagePlugin by name or file extension.
type Registry struct {
	byName string
	byExt  map[string]LanguagePlugin
	all    map[string]LanguagePlugin
}

// NewRegistry builds a registry from the given plugins.
func NewRegistry(plugins ...LanguagePlugin) *Registry {
	r := &Registry{
		byExt: make(map[string]LanguagePlugin),
		all:   make(map[string]LanguagePlugin),
	}
	for _, p := range plugins {
		r.all[p.Name()] = p
		for _, ext := range p.Extensions() {
			r.byExt[ext] = p
		}
	}
	return r
}

// ForExtension returns the plugin registered for a file extension.
func (r *Registry) ForExtension(ext string) (LanguagePlugin, bool) {
	p, ok := r.byExt[ext]
	return p, ok
}

// ForName returns the plugin registered under a language name.
func (r *Registry) ForName(name string) (LanguagePlugin, bool) {
	p, ok := r.all[name]
	return p, ok
}

// Names lists every registered language name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	return names
}
