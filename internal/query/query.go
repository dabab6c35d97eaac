// Package query implements the read-only graph query facade (spec
// §4.14): build once from an IR document's wire bytes, then serve many
// filtered node queries against the interned, in-memory graph without
// rebuilding any index per call.
package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codegraph-ir/codegraph/internal/types"
	"github.com/codegraph-ir/codegraph/internal/wire"
)

// Filter selects nodes by kind, name, FQN and/or file path. A zero-value
// field means "unmatched on this dimension" (matches teacher's
// MetricsFilter convention of treating the empty string as unset).
type Filter struct {
	Kind       string // PascalCase NodeKind name, e.g. "Function"
	Name       string // exact match
	NamePrefix string
	NameSuffix string
	FQN        string // exact match
	FQNPrefix  string
	FilePath   string

	// Limit and Offset page the result set. Zero Limit means "no cap" —
	// dropped from the distilled filter but present in the original
	// query API and worth keeping for any caller serving paged results.
	Limit  int
	Offset int
}

// Stats summarizes the interned graph's size.
type Stats struct {
	NodeCount int
	EdgeCount int
}

// Result is one QueryNodes call's answer, including its own timing so
// callers can report query latency without instrumenting themselves.
type Result struct {
	Count       int
	Nodes       []types.Node
	QueryTimeMS float64
}

// Graph is a query-only view over one IR document, built once and then
// queried any number of times. It holds no mutable state after
// construction, so it is safe to share across goroutines without a
// lock (this module's pointsto/heap/effect packages, by contrast, are
// single-goroutine because they mutate during a build pass; Graph's
// build pass is already finished by the time From* returns).
type Graph struct {
	nodes    map[string]*types.Node
	edges    []types.Edge
	nodeList []*types.Node // stable iteration order, by original index
}

// FromDocument builds a Graph directly from a decoded IR document.
func FromDocument(doc types.Document) *Graph {
	g := &Graph{
		nodes: make(map[string]*types.Node, len(doc.Nodes)),
		edges: doc.Edges,
	}
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		g.nodes[n.ID] = n
		g.nodeList = append(g.nodeList, n)
	}
	return g
}

// FromIRBytes decodes msgpack-encoded IR bytes (a {"nodes": [...],
// "edges": [...]} document, spec §4.14) and builds a Graph from them.
func FromIRBytes(irBytes []byte) (*Graph, error) {
	doc, err := wire.DecodeDocument(irBytes)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return FromDocument(doc), nil
}

// Stats reports the graph's node and edge counts.
func (g *Graph) Stats() Stats {
	return Stats{NodeCount: len(g.nodes), EdgeCount: len(g.edges)}
}

// QueryNodes filters the graph's nodes by filter, applying Offset/Limit
// after filtering, and reports how long the scan took.
func (g *Graph) QueryNodes(filter Filter) Result {
	start := time.Now()

	var matched []types.Node
	for _, n := range g.nodeList {
		if matchesFilter(n, filter) {
			matched = append(matched, *n)
		}
	}

	paged := paginate(matched, filter.Offset, filter.Limit)

	return Result{
		Count:       len(paged),
		Nodes:       paged,
		QueryTimeMS: float64(time.Since(start)) / float64(time.Millisecond),
	}
}

func paginate(nodes []types.Node, offset, limit int) []types.Node {
	if offset > 0 {
		if offset >= len(nodes) {
			return nil
		}
		nodes = nodes[offset:]
	}
	if limit > 0 && limit < len(nodes) {
		nodes = nodes[:limit]
	}
	return nodes
}

func matchesFilter(n *types.Node, f Filter) bool {
	if f.Kind != "" && n.Kind.String() != f.Kind {
		return false
	}
	if f.Name != "" && n.Name != f.Name {
		return false
	}
	if f.NamePrefix != "" && !strings.HasPrefix(n.Name, f.NamePrefix) {
		return false
	}
	if f.NameSuffix != "" && !strings.HasSuffix(n.Name, f.NameSuffix) {
		return false
	}
	if f.FQN != "" && n.FQN != f.FQN {
		return false
	}
	if f.FQNPrefix != "" && !strings.HasPrefix(n.FQN, f.FQNPrefix) {
		return false
	}
	if f.FilePath != "" && n.FilePath != f.FilePath {
		return false
	}
	return true
}

// Node looks up a single node by ID, the building block for edge
// traversal queries layered on top of QueryNodes.
func (g *Graph) Node(id string) (*types.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edges returns every edge whose source is id, sorted by target for
// deterministic output.
func (g *Graph) Edges(id string) []types.Edge {
	var out []types.Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Target < out[j].Target })
	return out
}
