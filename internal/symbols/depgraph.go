package symbols

import "github.com/codegraph-ir/codegraph/internal/types"

// irEdgeKindToSym maps an IR EdgeKind to the symbol dependency graph's own
// vocabulary. IR edges are keyed on Node.ID; the caller is responsible for
// mapping those to FQNs via the Index before calling DepGraph.Add (node ID
// and FQN coincide for every symbol this builder produces, but the symbol
// graph works in FQN space so cross-file identity is explicit).
var irEdgeKindToSym = map[types.EdgeKind]SymbolEdgeKind{
	types.EdgeCalls:      SymCalls,
	types.EdgeReads:      SymReads,
	types.EdgeWrites:     SymWrites,
	types.EdgeImports:    SymImports,
	types.EdgeInherits:   SymInherits,
	types.EdgeReferences: SymReferences,
}

// BuildDepGraph constructs the cross-file symbol dependency graph from
// every file's IR document, skipping structural edges (Contains/Defines)
// and any edge whose endpoint isn't a FQN the index actually resolved —
// spec §4.3's "skipping empty FQNs".
func BuildDepGraph(docs []*types.Document) *DepGraph {
	g := NewDepGraph()
	for _, doc := range docs {
		for _, e := range doc.Edges {
			if e.Kind.IsStructural() {
				continue
			}
			kind, ok := irEdgeKindToSym[e.Kind]
			if !ok {
				continue
			}
			g.Add(e.Source, e.Target, kind)
		}
	}
	return g
}

// SymbolEdgeKind is a typed relation between two symbols' FQNs in the
// symbol dependency graph (spec §4.3), distinct from the per-file IR's
// EdgeKind: this graph is built across files, keyed on FQN, and carries
// the automatically-added reverse kind for bidirectional relations.
type SymbolEdgeKind uint8

const (
	SymCalls SymbolEdgeKind = iota
	SymCalledBy
	SymImports
	SymExports
	SymInherits
	SymInheritedBy
	SymReferences
	SymReferencedBy
	SymReads
	SymWrites
)

var reverseKind = map[SymbolEdgeKind]SymbolEdgeKind{
	SymCalls:      SymCalledBy,
	SymCalledBy:   SymCalls,
	SymImports:    SymExports,
	SymExports:    SymImports,
	SymInherits:   SymInheritedBy,
	SymReferences: SymReferencedBy,
}

// DepEdge is one directed relation in the symbol dependency graph.
type DepEdge struct {
	From string
	To   string
	Kind SymbolEdgeKind
}

// DepGraph is the symbol dependency graph: per-FQN adjacency plus an
// edges-by-kind side index for O(1) typed traversal (spec §4.3).
type DepGraph struct {
	out         map[string][]DepEdge
	edgesByKind map[SymbolEdgeKind][]DepEdge
}

// NewDepGraph constructs an empty dependency graph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		out:         make(map[string][]DepEdge),
		edgesByKind: make(map[SymbolEdgeKind][]DepEdge),
	}
}

// Add records a directed relation and, for the bidirectional kinds this
// package knows about, its automatic reverse.
func (g *DepGraph) Add(from, to string, kind SymbolEdgeKind) {
	if from == "" || to == "" {
		return
	}
	g.add(from, to, kind)
	if rev, ok := reverseKind[kind]; ok {
		g.add(to, from, rev)
	}
}

func (g *DepGraph) add(from, to string, kind SymbolEdgeKind) {
	e := DepEdge{From: from, To: to, Kind: kind}
	g.out[from] = append(g.out[from], e)
	g.edgesByKind[kind] = append(g.edgesByKind[kind], e)
}

// Adjacent returns every outgoing edge from fqn.
func (g *DepGraph) Adjacent(fqn string) []DepEdge { return g.out[fqn] }

// ByKind returns every edge of a given kind, across the whole graph.
func (g *DepGraph) ByKind(kind SymbolEdgeKind) []DepEdge { return g.edgesByKind[kind] }

// CallGraph is the specialized view restricted to function/method
// endpoints, with forward (callees) and reverse (callers) adjacency.
type CallGraph struct {
	callees map[string][]string
	callers map[string][]string
}

// BuildCallGraph derives the call graph from a dependency graph's SymCalls
// edges, restricted to the symbol FQNs in isCallable.
func BuildCallGraph(g *DepGraph, isCallable func(fqn string) bool) *CallGraph {
	cg := &CallGraph{callees: make(map[string][]string), callers: make(map[string][]string)}
	for _, e := range g.ByKind(SymCalls) {
		if !isCallable(e.From) || !isCallable(e.To) {
			continue
		}
		cg.callees[e.From] = append(cg.callees[e.From], e.To)
		cg.callers[e.To] = append(cg.callers[e.To], e.From)
	}
	return cg
}

// Callees returns fqn's direct call targets.
func (cg *CallGraph) Callees(fqn string) []string { return cg.callees[fqn] }

// Callers returns fqn's direct callers.
func (cg *CallGraph) Callers(fqn string) []string { return cg.callers[fqn] }

// TransitiveCallees performs a BFS over the callee adjacency, returning
// every function transitively reachable from fqn (spec §4.3's "BFS for
// transitive closure").
func (cg *CallGraph) TransitiveCallees(fqn string) []string {
	return bfs(fqn, cg.callees)
}

// TransitiveCallers performs the same BFS over the caller adjacency.
func (cg *CallGraph) TransitiveCallers(fqn string) []string {
	return bfs(fqn, cg.callers)
}

func bfs(start string, adj map[string][]string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}
