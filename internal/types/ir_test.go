package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanValid(t *testing.T) {
	assert.True(t, Span{StartLine: 1, StartCol: 0, EndLine: 1, EndCol: 5}.Valid())
	assert.True(t, Span{StartLine: 1, StartCol: 10, EndLine: 2, EndCol: 0}.Valid())
	assert.False(t, Span{StartLine: 2, StartCol: 0, EndLine: 1, EndCol: 0}.Valid())
	assert.False(t, Span{StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 2}.Valid())
}

func TestNodeKindIsSymbolKind(t *testing.T) {
	assert.True(t, NodeFunction.IsSymbolKind())
	assert.True(t, NodeClass.IsSymbolKind())
	assert.False(t, NodeFile.IsSymbolKind())
	assert.False(t, NodeImport.IsSymbolKind())
}

func TestNodeIsPublic(t *testing.T) {
	n := Node{Name: "DoThing"}
	assert.True(t, n.IsPublic())
	n.Name = "_private"
	assert.False(t, n.IsPublic())
	n.Name = "__init__"
	assert.True(t, n.IsPublic())
}

func TestEdgeKindIsStructural(t *testing.T) {
	assert.True(t, EdgeContains.IsStructural())
	assert.True(t, EdgeDefines.IsStructural())
	assert.False(t, EdgeCalls.IsStructural())
}

func TestVerdictWorse(t *testing.T) {
	assert.Equal(t, VerdictHeuristic, VerdictProven.Worse(VerdictHeuristic))
	assert.Equal(t, VerdictLikely, VerdictProven.Worse(VerdictLikely))
}
