package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/types"
	"github.com/codegraph-ir/codegraph/internal/wire"
)

func sampleDocument() types.Document {
	return types.Document{
		Nodes: []types.Node{
			{ID: "func1", FQN: "test.func1", Kind: types.NodeFunction, FilePath: "test.py", Name: "func1"},
			{ID: "class1", FQN: "test.MyClass", Kind: types.NodeClass, FilePath: "test.py", Name: "MyClass"},
			{ID: "other", FQN: "other.thing", Kind: types.NodeVariable, FilePath: "other.py", Name: "thing"},
		},
		Edges: []types.Edge{
			{Source: "func1", Target: "class1", Kind: types.EdgeCalls},
		},
	}
}

func TestQueryFilterDefaultsMatchEverything(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{})
	assert.Equal(t, 3, result.Count)
}

func TestStatsReportsCounts(t *testing.T) {
	g := FromDocument(sampleDocument())
	stats := g.Stats()
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)
}

func TestQueryNodesFiltersByKind(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{Kind: "Function"})
	require.Equal(t, 1, result.Count)
	assert.Equal(t, types.NodeFunction, result.Nodes[0].Kind)
}

func TestQueryNodesFiltersByNamePrefix(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{NamePrefix: "My"})
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "MyClass", result.Nodes[0].Name)
}

func TestQueryNodesFiltersByFilePath(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{FilePath: "other.py"})
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "thing", result.Nodes[0].Name)
}

func TestQueryNodesUnknownKindMatchesNone(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{Kind: "NotAKind"})
	assert.Equal(t, 0, result.Count)
}

func TestQueryNodesPaginatesWithOffsetAndLimit(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{Offset: 1, Limit: 1})
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "MyClass", result.Nodes[0].Name)
}

func TestQueryNodesOffsetPastEndReturnsEmpty(t *testing.T) {
	g := FromDocument(sampleDocument())
	result := g.QueryNodes(Filter{Offset: 100})
	assert.Equal(t, 0, result.Count)
}

func TestFromIRBytesRoundTripsThroughWire(t *testing.T) {
	doc := sampleDocument()
	data, err := wire.EncodeDocument(doc)
	require.NoError(t, err)

	g, err := FromIRBytes(data)
	require.NoError(t, err)

	result := g.QueryNodes(Filter{})
	assert.Equal(t, 3, result.Count)
}

func TestNodeLookupByID(t *testing.T) {
	g := FromDocument(sampleDocument())
	n, ok := g.Node("func1")
	require.True(t, ok)
	assert.Equal(t, "func1", n.Name)

	_, ok = g.Node("missing")
	assert.False(t, ok)
}

func TestEdgesFromSourceSortedByTarget(t *testing.T) {
	doc := sampleDocument()
	doc.Edges = append(doc.Edges, types.Edge{Source: "func1", Target: "a", Kind: types.EdgeReferences})
	g := FromDocument(doc)
	edges := g.Edges("func1")
	require.Len(t, edges, 2)
	assert.Equal(t, "a", edges[0].Target)
	assert.Equal(t, "class1", edges[1].Target)
}
