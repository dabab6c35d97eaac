// Package occurrence implements the L2 occurrence generator (spec §4.2):
// one definition occurrence per symbol-kind node, one reference occurrence
// per non-structural edge.
package occurrence

import "github.com/codegraph-ir/codegraph/internal/types"

// Generate produces the occurrence list for one file's IR document.
// parentOf maps a node's FQN to its immediate Contains-parent's FQN, used
// both for the "top-level" importance bonus and the occurrence's Parent
// field; nodesByID maps a node's ID to the node itself, needed to compute
// a reference occurrence's fallback span and file path when the edge
// doesn't carry its own.
func Generate(doc *types.Document) []types.Occurrence {
	nodesByID := make(map[string]types.Node, len(doc.Nodes))
	parentOf := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodesByID[n.ID] = n
	}
	for _, e := range doc.Edges {
		if e.Kind == types.EdgeContains {
			parentOf[e.Target] = e.Source
		}
	}

	var out []types.Occurrence

	for _, n := range doc.Nodes {
		if !n.Kind.IsSymbolKind() {
			continue
		}
		out = append(out, types.Occurrence{
			Symbol:     n.ID,
			Role:       types.RoleDefinition,
			FilePath:   n.FilePath,
			Span:       n.Span,
			Parent:     parentOf[n.ID],
			Importance: importanceOf(n, parentOf, nodesByID),
		})
	}

	for _, e := range doc.Edges {
		if e.Kind.IsStructural() {
			continue
		}
		role, ok := roleFor(e.Kind)
		if !ok {
			continue
		}
		span := e.Span
		filePath := ""
		if src, ok := nodesByID[e.Source]; ok {
			filePath = src.FilePath
			if span == (types.Span{}) {
				span = src.Span
			}
		}
		out = append(out, types.Occurrence{
			Symbol:     e.Target,
			Role:       role,
			FilePath:   filePath,
			Span:       span,
			Parent:     e.Source,
			Importance: types.ImportanceReference,
		})
	}

	return out
}

func roleFor(kind types.EdgeKind) (types.OccurrenceRole, bool) {
	switch kind {
	case types.EdgeCalls, types.EdgeInvokes, types.EdgeReferences, types.EdgeInherits, types.EdgeTypeAnnotation:
		return types.RoleReadAccess, true
	case types.EdgeReads:
		return types.RoleReadAccess, true
	case types.EdgeWrites:
		return types.RoleWriteAccess, true
	case types.EdgeImports:
		return types.RoleImport, true
	default:
		return 0, false
	}
}

// importanceOf scores a definition occurrence. "Top-level" means the
// node's structural parent is the file itself, not an enclosing symbol
// (every symbol has *some* Contains parent, at minimum the file node).
func importanceOf(n types.Node, parentOf map[string]string, nodesByID map[string]types.Node) float64 {
	score := types.ImportanceBase
	if n.IsPublic() {
		score += types.ImportancePublicBonus
	}
	if n.HasDocstring() {
		score += types.ImportanceDocBonus
	}
	parent, hasParent := parentOf[n.ID]
	if !hasParent {
		score += types.ImportanceTopLevelBonus
	} else if pn, ok := nodesByID[parent]; ok && pn.Kind == types.NodeFile {
		score += types.ImportanceTopLevelBonus
	}
	switch n.Kind {
	case types.NodeClass:
		score += types.ImportanceClassBonus
	case types.NodeFunction, types.NodeMethod:
		score += types.ImportanceFuncBonus
	}
	return types.ClampImportance(score)
}
