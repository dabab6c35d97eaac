// Package types holds the language-agnostic intermediate representation:
// nodes, edges, occurrences, spans and chunks shared by every analysis
// layer. A snapshot owns exactly one set of these; nothing here is
// mutated once a snapshot has been produced.
package types

import "fmt"

// Indexing defaults, used by internal/config to populate the zero-value
// configuration before any .codegraph.kdl override is applied.
const (
	DefaultMaxFileSize      = 5 * 1024 * 1024   // 5MB per-file cap
	DefaultMaxTotalSizeMB   = 2048               // 2GB total indexed size
	DefaultMaxFileCount     = 200000             // per-repo file cap
	BinaryPreCheckSizeThreshold = 512            // bytes sampled for binary sniffing
	BinaryPreCheckBytes     = 8                  // NUL bytes tolerated in the sample
)

// FileID identifies a source file within a snapshot.
type FileID uint32

// SymbolID is a dense per-snapshot identifier for an indexable symbol,
// distinct from the externally visible FQN.
type SymbolID uint64

// Span is a source-text region. Lines are 1-indexed, columns 0-indexed,
// matching spec §3.
type Span struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

// Valid reports whether the span satisfies start <= end lexicographically.
func (s Span) Valid() bool {
	if s.StartLine != s.EndLine {
		return s.StartLine < s.EndLine
	}
	return s.StartCol <= s.EndCol
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// NodeKind is the closed enumeration from spec §6. PascalCase matches the
// wire encoding exactly.
type NodeKind uint8

const (
	NodeFile NodeKind = iota
	NodeModule
	NodeClass
	NodeFunction
	NodeMethod
	NodeVariable
	NodeParameter
	NodeField
	NodeLambda
	NodeImport
	NodeInterface
	NodeEnum
	NodeEnumMember
	NodeTypeAlias
	NodeTypeParameter
	NodeConstant
)

var nodeKindNames = [...]string{
	"File", "Module", "Class", "Function", "Method", "Variable",
	"Parameter", "Field", "Lambda", "Import", "Interface", "Enum",
	"EnumMember", "TypeAlias", "TypeParameter", "Constant",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsSymbolKind reports whether a node of this kind is indexable (i.e.
// participates in FQN uniqueness, §8 invariant 1).
func (k NodeKind) IsSymbolKind() bool {
	switch k {
	case NodeClass, NodeFunction, NodeMethod, NodeVariable, NodeParameter,
		NodeField, NodeLambda, NodeInterface, NodeEnum, NodeEnumMember,
		NodeTypeAlias, NodeTypeParameter, NodeConstant:
		return true
	default:
		return false
	}
}

// Modifier is a bitfield of source-level modifiers (static, abstract, …).
type Modifier uint16

const ModNone Modifier = 0

const (
	ModStatic Modifier = 1 << iota
	ModAbstract
	ModFinal
	ModPrivate
	ModProtected
	ModPublic
	ModAsync
	ModGenerator
	ModReadonly
)

// Node is a semantic entity in the IR: file, module, class, function,
// method, variable, parameter, field, lambda, import, type, etc.
// See spec §3.
type Node struct {
	ID          string   `json:"id"`
	FQN         string   `json:"fqn"`
	Kind        NodeKind `json:"kind"`
	FilePath    string   `json:"file_path"`
	Span        Span     `json:"span"`
	ContentHash uint64   `json:"content_hash,omitempty"`

	Name string `json:"name"`

	// Kind-specific optional fields. Which of these are meaningful is
	// determined entirely by Kind (spec §3 invariant).
	Parameters  []Node   `json:"parameters,omitempty"`
	ReturnType  string   `json:"return_type,omitempty"`
	BaseClasses []string `json:"base_classes,omitempty"`
	Decorators  []string `json:"decorators,omitempty"`
	Docstring   string   `json:"docstring,omitempty"`
	Modifiers   Modifier `json:"modifiers,omitempty"`
	TypeAnnot   string   `json:"type_annotation,omitempty"`
	InitValue   string   `json:"initial_value,omitempty"`
}

// HasDocstring reports whether the node carries documentation — used by
// the occurrence generator's importance score (spec §4.2).
func (n *Node) HasDocstring() bool { return n.Docstring != "" }

// IsPublic applies the language-agnostic public/private heuristic: not
// underscore-prefixed, or a dunder name.
func (n *Node) IsPublic() bool {
	if n.Name == "" {
		return true
	}
	if len(n.Name) >= 4 && n.Name[:2] == "__" && n.Name[len(n.Name)-2:] == "__" {
		return true
	}
	return n.Name[0] != '_'
}

// EdgeKind is the closed enumeration of directed relations between nodes
// (spec §3, §6).
type EdgeKind uint8

const (
	EdgeContains EdgeKind = iota
	EdgeCalls
	EdgeInvokes
	EdgeReads
	EdgeWrites
	EdgeDefines
	EdgeDefUse
	EdgeDataFlow
	EdgeReferences
	EdgeInherits
	EdgeImports
	EdgeTypeAnnotation
)

var edgeKindNames = [...]string{
	"Contains", "Calls", "Invokes", "Reads", "Writes", "Defines",
	"DefUse", "DataFlow", "References", "Inherits", "Imports",
	"TypeAnnotation",
}

func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return "Unknown"
}

// IsStructural reports whether the edge is Contains/Defines — these are
// skipped by the occurrence generator (spec §4.2).
func (k EdgeKind) IsStructural() bool {
	return k == EdgeContains || k == EdgeDefines
}

// Edge is a directed relation between two nodes, identified by their IDs.
// Source/Target are Node.ID values, not FQNs.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	// Span is the call-site/read-site location, distinct from either
	// endpoint's own span. Zero value means "use the source node's span".
	Span Span `json:"span,omitempty"`
}

// Document is the {nodes, edges} pair the query facade's intern step
// deserializes raw IR bytes into (spec §4.14).
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
