package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codegraph-ir/codegraph/internal/types"
)

func TestBuildDepGraphAddsReverseEdges(t *testing.T) {
	docs := []*types.Document{
		{Edges: []types.Edge{
			{Source: "pkg.caller", Target: "pkg.callee", Kind: types.EdgeCalls},
			{Source: "pkg.file", Target: "pkg.caller", Kind: types.EdgeContains},
		}},
	}
	g := BuildDepGraph(docs)

	calls := g.ByKind(SymCalls)
	assert.Len(t, calls, 1)
	assert.Equal(t, "pkg.caller", calls[0].From)

	calledBy := g.ByKind(SymCalledBy)
	assert.Len(t, calledBy, 1)
	assert.Equal(t, "pkg.callee", calledBy[0].From)
	assert.Equal(t, "pkg.caller", calledBy[0].To)
}

func TestCallGraphTransitiveClosure(t *testing.T) {
	g := NewDepGraph()
	g.Add("pkg.a", "pkg.b", SymCalls)
	g.Add("pkg.b", "pkg.c", SymCalls)
	g.Add("pkg.c", "pkg.a", SymCalls) // cycle

	callable := map[string]bool{"pkg.a": true, "pkg.b": true, "pkg.c": true}
	cg := BuildCallGraph(g, func(fqn string) bool { return callable[fqn] })

	assert.ElementsMatch(t, []string{"pkg.b"}, cg.Callees("pkg.a"))
	assert.ElementsMatch(t, []string{"pkg.b", "pkg.c"}, cg.TransitiveCallees("pkg.a"))
	assert.ElementsMatch(t, []string{"pkg.b", "pkg.c"}, cg.TransitiveCallers("pkg.a"))
}
