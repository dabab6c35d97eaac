// Package chunker builds the hierarchical chunk tree (spec §3, §4): a
// File chunk per source file, one Class/Function/Constant/Variable chunk
// per symbol-kind node whose kind maps to a chunk level, and optional Docstring chunks
// for documented definitions. Module/Project/Repo chunks span multiple
// files and are assembled by the caller (internal/pipeline) once every
// file in a commit has been chunked, not by this package.
package chunker

import (
	"fmt"
	"strings"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// nodeChunkKinds maps an IR NodeKind to the chunk level it anchors. Kinds
// absent from this table (imports, fields, parameters, …) don't get their
// own chunk; they're covered by their enclosing Class/Function chunk.
var nodeChunkKinds = map[types.NodeKind]types.ChunkKind{
	types.NodeClass:     types.ChunkClass,
	types.NodeInterface: types.ChunkClass,
	types.NodeEnum:      types.ChunkClass,
	types.NodeFunction:  types.ChunkFunction,
	types.NodeMethod:    types.ChunkFunction,
	types.NodeConstant:  types.ChunkConstant,
	types.NodeVariable:  types.ChunkVariable,
}

// Build produces the File chunk and every symbol-anchored chunk inside it
// for one file's IR document. lines is the file's content split on "\n",
// used to slice chunk Content by 1-indexed [StartLine, EndLine].
func Build(doc *types.Document, lines []string, snapshotID string) []types.Chunk {
	var fileNode types.Node
	var haveFile bool
	parentOf := make(map[string]string, len(doc.Nodes))
	for _, e := range doc.Edges {
		if e.Kind == types.EdgeContains {
			parentOf[e.Target] = e.Source
		}
	}
	for _, n := range doc.Nodes {
		if n.Kind == types.NodeFile {
			fileNode = n
			haveFile = true
			break
		}
	}
	if !haveFile {
		return nil
	}

	chunkIDByNodeID := map[string]string{fileNode.ID: chunkID(snapshotID, fileNode.ID)}
	var out []types.Chunk

	out = append(out, types.Chunk{
		ID:         chunkIDByNodeID[fileNode.ID],
		Kind:       types.ChunkFile,
		FilePath:   fileNode.FilePath,
		StartLine:  1,
		EndLine:    len(lines),
		Content:    strings.Join(lines, "\n"),
		SnapshotID: snapshotID,
	})

	for _, n := range doc.Nodes {
		kind, ok := nodeChunkKinds[n.Kind]
		if !ok {
			continue
		}
		id := chunkID(snapshotID, n.ID)
		chunkIDByNodeID[n.ID] = id

		parentNodeID := parentOf[n.ID]
		parentChunkID := chunkIDByNodeID[parentNodeID]
		if parentChunkID == "" {
			parentChunkID = chunkIDByNodeID[fileNode.ID]
		}

		out = append(out, types.Chunk{
			ID:         id,
			Kind:       kind,
			FilePath:   n.FilePath,
			StartLine:  n.Span.StartLine,
			EndLine:    n.Span.EndLine,
			Content:    sliceLines(lines, n.Span.StartLine, n.Span.EndLine),
			SymbolID:   n.ID,
			ParentID:   parentChunkID,
			SnapshotID: snapshotID,
		})

		if n.Docstring != "" {
			out = append(out, types.Chunk{
				ID:         id + "#doc",
				Kind:       types.ChunkDocstring,
				FilePath:   n.FilePath,
				StartLine:  n.Span.StartLine,
				EndLine:    n.Span.StartLine,
				Content:    n.Docstring,
				SymbolID:   n.ID,
				ParentID:   id,
				SnapshotID: snapshotID,
			})
		}
	}

	return out
}

func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func chunkID(snapshotID, nodeID string) string {
	return fmt.Sprintf("%s:%s", snapshotID, nodeID)
}
