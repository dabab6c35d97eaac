// Package irbuilder implements the L1 IR builder (spec §4.1): it walks one
// parsed file with an extraction context carrying a scope stack and module
// path, and emits the Nodes and Edges of the language-agnostic IR.
//
// The builder leans on two things a LanguagePlugin gives it: the
// DefinitionQuery captures (which nodes define a symbol, and under which
// capture name) for the structural Contains tree and FQN assembly, and a
// small set of grammar-convention heuristics — grounded on the teacher's
// extractReferencedSymbolNameWithType dispatch — for the Calls/Reads/Writes
// edges inside a function body. Names that resolve to nothing declared in
// the file are lifted to "builtins.<name>"; cross-file resolution of those
// is internal/symbols' job, not this package's.
package irbuilder

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph-ir/codegraph/internal/parser"
	"github.com/codegraph-ir/codegraph/internal/types"
)

// captureKinds maps a DefinitionQuery's base capture name (the part before
// any ".name"/".path" suffix) to the IR node kind it denotes. Every plugin
// in internal/parser/plugins draws its capture names from this vocabulary;
// a plugin that introduces a new one without a mapping here simply produces
// no node for it, rather than failing the whole file.
var captureKinds = map[string]types.NodeKind{
	"function":    types.NodeFunction,
	"method":      types.NodeMethod,
	"constructor": types.NodeMethod,
	"class":       types.NodeClass,
	"struct":      types.NodeClass,
	"record":      types.NodeClass,
	"trait":       types.NodeClass,
	"interface":   types.NodeInterface,
	"enum":        types.NodeEnum,
	"field":       types.NodeField,
	"property":    types.NodeField,
	"event":       types.NodeField,
	"variable":    types.NodeVariable,
	"type":        types.NodeTypeAlias,
	"delegate":    types.NodeTypeAlias,
	"import":      types.NodeImport,
	"using":       types.NodeImport,
	"namespace":   types.NodeModule,
	"module":      types.NodeModule,
}

// definition is one DefinitionQuery match, before nesting and FQN assembly.
type definition struct {
	node tree_sitter.Node
	kind types.NodeKind
	name string
}

// Builder turns one parsed file into an IR Document.
type Builder struct {
	plugin     parser.LanguagePlugin
	content    []byte
	path       string
	modulePath string
}

// New constructs a Builder for one file. modulePath is the dotted prefix
// FQNs are built under (e.g. the import path or package-relative path
// the caller has already derived for path).
func New(plugin parser.LanguagePlugin, path string, content []byte, modulePath string) *Builder {
	return &Builder{plugin: plugin, content: content, path: path, modulePath: modulePath}
}

// Build walks tree and returns the file's IR document.
func (b *Builder) Build(tree *tree_sitter.Tree) *types.Document {
	doc := &types.Document{}

	fileNode := types.Node{
		ID:       b.path,
		FQN:      b.modulePath,
		Kind:     types.NodeFile,
		FilePath: b.path,
		Name:     filepath.Base(b.path),
		Span:     spanOf(tree.RootNode()),
	}
	doc.Nodes = append(doc.Nodes, fileNode)

	defs := b.collectDefinitions(tree)
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].node.StartByte() != defs[j].node.StartByte() {
			return defs[i].node.StartByte() < defs[j].node.StartByte()
		}
		return defs[i].node.EndByte() > defs[j].node.EndByte()
	})

	type frame struct {
		id  string
		fqn string
		end uint
	}
	stack := []frame{{id: fileNode.ID, fqn: fileNode.FQN, end: tree.RootNode().EndByte()}}

	type funcFrame struct {
		id   string
		node tree_sitter.Node
	}
	var funcFrames []funcFrame

	for _, d := range defs {
		for len(stack) > 1 && d.node.StartByte() >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}
		p := stack[len(stack)-1]

		name := d.name
		var fqn string
		switch {
		case name != "":
			if p.fqn == "" {
				fqn = name
			} else {
				fqn = p.fqn + "." + name
			}
		default:
			// Anonymous definition (func literal, anonymous class, …): keep
			// FQN uniqueness via its byte offset rather than dropping it.
			fqn = fmt.Sprintf("%s.$anon@%d", p.fqn, d.node.StartByte())
		}

		n := types.Node{
			ID:        fqn,
			FQN:       fqn,
			Kind:      d.kind,
			FilePath:  b.path,
			Span:      spanOf(&d.node),
			Name:      name,
			Docstring: docstringOf(b.content, d.node.StartByte(), b.plugin.Name()),
		}
		doc.Nodes = append(doc.Nodes, n)
		doc.Edges = append(doc.Edges, types.Edge{Source: p.id, Target: n.ID, Kind: types.EdgeContains})

		if d.kind == types.NodeFunction || d.kind == types.NodeMethod {
			funcFrames = append(funcFrames, funcFrame{id: n.ID, node: d.node})
		}

		stack = append(stack, frame{id: n.ID, fqn: fqn, end: d.node.EndByte()})
	}

	global := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.Kind.IsSymbolKind() && n.Name != "" {
			global[n.Name] = n.FQN
		}
	}

	for _, ff := range funcFrames {
		local := make(map[string]string, len(global))
		for k, v := range global {
			local[k] = v
		}
		b.collectLocalWrites(ff.node, ff.id, local)
		b.walkBody(ff.node, ff.id, local, doc)
	}

	return doc
}

// collectDefinitions runs the plugin's DefinitionQuery over the tree and
// returns one definition per match that names a node kind this builder
// understands (spec §4.1's per-language definition capture convention).
func (b *Builder) collectDefinitions(tree *tree_sitter.Tree) []definition {
	query := b.plugin.DefinitionQuery()
	if query == nil {
		return nil
	}
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(query, tree.RootNode(), b.content)
	captureNames := query.CaptureNames()

	var defs []definition
	for {
		m := matches.Next()
		if m == nil {
			break
		}

		names := make(map[string]string, 2)
		var mainNode *tree_sitter.Node
		var mainCapture string

		for _, c := range m.Captures {
			cn := captureNames[c.Index]
			node := c.Node
			if dot := strings.IndexByte(cn, '.'); dot >= 0 {
				base, attr := cn[:dot], cn[dot+1:]
				if attr == "name" || attr == "path" || attr == "source" {
					names[base] = b.text(&node)
				}
				continue
			}
			if _, ok := captureKinds[cn]; ok {
				mainNode = &node
				mainCapture = cn
			}
		}
		if mainNode == nil {
			continue
		}
		defs = append(defs, definition{
			node: *mainNode,
			kind: captureKinds[mainCapture],
			name: names[mainCapture],
		})
	}
	return defs
}

// collectLocalWrites pre-seeds declared with every name this function body
// assigns, so a later read of that name resolves to the local binding
// rather than falling through to builtins.<name>.
func (b *Builder) collectLocalWrites(root tree_sitter.Node, ownerFQN string, declared map[string]string) {
	var walk func(n tree_sitter.Node)
	walk = func(n tree_sitter.Node) {
		kind := n.Kind()
		if isAssignmentNode(kind) || isDeclaratorNode(kind) {
			if target := writeTargetIdentifier(&n); target != nil {
				name := b.text(target)
				if _, exists := declared[name]; !exists && name != "" {
					declared[name] = ownerFQN + "." + name
				}
			}
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if c := n.Child(uint(i)); c != nil {
				walk(*c)
			}
		}
	}
	walk(root)
}

// walkBody is the second pass: it emits Calls, Writes and Reads edges for
// a function body, now that declared carries every local binding.
func (b *Builder) walkBody(root tree_sitter.Node, ownerID string, declared map[string]string, doc *types.Document) {
	consumed := make(map[int]bool)
	var walk func(n tree_sitter.Node)
	walk = func(n tree_sitter.Node) {
		kind := n.Kind()

		switch {
		case isCallNode(kind):
			if name, calleeNode := b.calleeName(&n); calleeNode != nil && name != "" {
				doc.Edges = append(doc.Edges, types.Edge{
					Source: ownerID,
					Target: resolveTarget(name, declared),
					Kind:   types.EdgeCalls,
					Span:   spanOf(calleeNode),
				})
				consumed[int(calleeNode.StartByte())] = true
			}
		case isAssignmentNode(kind) || isDeclaratorNode(kind):
			if target := writeTargetIdentifier(&n); target != nil {
				name := b.text(target)
				doc.Edges = append(doc.Edges, types.Edge{
					Source: ownerID,
					Target: resolveTarget(name, declared),
					Kind:   types.EdgeWrites,
					Span:   spanOf(target),
				})
				consumed[int(target.StartByte())] = true
			}
		}

		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if c := n.Child(uint(i)); c != nil {
				walk(*c)
			}
		}

		if isIdentifierKind(kind) && !consumed[int(n.StartByte())] {
			name := b.text(&n)
			if name != "" && name != "_" {
				doc.Edges = append(doc.Edges, types.Edge{
					Source: ownerID,
					Target: resolveTarget(name, declared),
					Kind:   types.EdgeReads,
					Span:   spanOf(&n),
				})
			}
		}
	}
	walk(root)
}

func resolveTarget(name string, declared map[string]string) string {
	if fqn, ok := declared[name]; ok {
		return fqn
	}
	return "builtins." + name
}

// calleeName resolves a call node's displayed target name, following the
// same object.field / object.property dispatch the teacher's
// extractReferencedSymbolNameWithType uses, generalized across grammars.
func (b *Builder) calleeName(n *tree_sitter.Node) (string, *tree_sitter.Node) {
	callee := n.ChildByFieldName("function")
	if callee == nil {
		callee = n.ChildByFieldName("name")
	}
	if callee == nil {
		return "", nil
	}
	return b.referencedName(callee), callee
}

func (b *Builder) referencedName(n *tree_sitter.Node) string {
	switch n.Kind() {
	case "identifier", "field_identifier", "type_identifier", "property_identifier", "name":
		return b.text(n)
	case "selector_expression":
		if f := n.ChildByFieldName("field"); f != nil {
			return b.text(f)
		}
	case "member_expression", "member_access_expression":
		if p := n.ChildByFieldName("property"); p != nil {
			return b.text(p)
		}
	case "attribute", "scoped_identifier":
		if a := n.ChildByFieldName("attribute"); a != nil {
			return b.text(a)
		}
	case "call_expression", "method_invocation", "invocation_expression":
		if f := n.ChildByFieldName("function"); f != nil {
			return b.referencedName(f)
		}
	}
	full := b.text(n)
	if idx := strings.LastIndexByte(full, '.'); idx >= 0 {
		return full[idx+1:]
	}
	return full
}

func writeTargetIdentifier(n *tree_sitter.Node) *tree_sitter.Node {
	for _, field := range []string{"left", "name", "target"} {
		if c := n.ChildByFieldName(field); c != nil {
			if id := firstIdentifierDescendant(c); id != nil {
				return id
			}
		}
	}
	return firstIdentifierDescendant(n)
}

func firstIdentifierDescendant(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	if isIdentifierKind(n.Kind()) {
		return n
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if c := n.Child(uint(i)); c != nil {
			if found := firstIdentifierDescendant(c); found != nil {
				return found
			}
		}
	}
	return nil
}

func isIdentifierKind(kind string) bool {
	switch kind {
	case "identifier", "field_identifier", "type_identifier", "property_identifier", "name":
		return true
	default:
		return false
	}
}

func isCallNode(kind string) bool {
	switch kind {
	case "call_expression", "call", "method_invocation", "invocation_expression",
		"function_call_expression", "member_call_expression", "scoped_call_expression":
		return true
	default:
		return false
	}
}

func isAssignmentNode(kind string) bool {
	switch kind {
	case "assignment_statement", "assignment", "assignment_expression",
		"augmented_assignment", "short_var_declaration":
		return true
	default:
		return false
	}
}

func isDeclaratorNode(kind string) bool {
	switch kind {
	case "var_spec", "variable_declarator", "let_declaration", "local_variable_declaration":
		return true
	default:
		return false
	}
}

func (b *Builder) text(n *tree_sitter.Node) string {
	return string(b.content[n.StartByte():n.EndByte()])
}

func spanOf(n *tree_sitter.Node) types.Span {
	sp := n.StartPosition()
	ep := n.EndPosition()
	return types.Span{
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column),
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column),
	}
}
