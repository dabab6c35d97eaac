package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/types"
)

func docFor(filePath string, nodes ...types.Node) *types.Document {
	return &types.Document{Nodes: nodes}
}

func TestIndexResolveExactAndPrefix(t *testing.T) {
	ix := NewIndex()
	ix.AddDocument("pkg/mod.go", docFor("pkg/mod.go",
		types.Node{ID: "pkg.mod.Widget", FQN: "pkg.mod.Widget", Kind: types.NodeClass, Name: "Widget"},
		types.Node{ID: "pkg.mod.Widget.Render", FQN: "pkg.mod.Widget.Render", Kind: types.NodeMethod, Name: "Render"},
	))

	sym, ok := ix.Resolve("pkg/mod.go", "pkg.mod.Widget.Render")
	require.True(t, ok)
	assert.Equal(t, "pkg.mod.Widget.Render", sym.FQN)

	// no exact match for this dotted ref; prefix-stripping should land on Widget.
	sym, ok = ix.Resolve("pkg/mod.go", "pkg.mod.Widget.missing")
	require.True(t, ok)
	assert.Equal(t, "pkg.mod.Widget", sym.FQN)
}

func TestIndexResolveAlias(t *testing.T) {
	ix := NewIndex()
	ix.AddDocument("a.py", docFor("a.py",
		types.Node{ID: "pkg.real", FQN: "pkg.real", Kind: types.NodeFunction, Name: "real"},
	))
	ix.AddAlias("b.py", "aliased", "pkg.real")

	sym, ok := ix.Resolve("b.py", "aliased")
	require.True(t, ok)
	assert.Equal(t, "pkg.real", sym.FQN)

	_, ok = ix.Resolve("c.py", "aliased")
	assert.False(t, ok, "alias is scoped to the file that declared it")
}

func TestIndexResolveFuzzyFallback(t *testing.T) {
	ix := NewIndex()
	ix.AddDocument("svc.go", docFor("svc.go",
		types.Node{ID: "pkg.GetUsers", FQN: "pkg.GetUsers", Kind: types.NodeFunction, Name: "GetUsers"},
	))

	sym, ok := ix.Resolve("other.go", "GetUser")
	require.True(t, ok, "stemmed Jaro-Winkler fallback should match a near-identical name")
	assert.Equal(t, "pkg.GetUsers", sym.FQN)
}

func TestIndexRemoveFile(t *testing.T) {
	ix := NewIndex()
	ix.AddDocument("a.go", docFor("a.go",
		types.Node{ID: "pkg.A", FQN: "pkg.A", Kind: types.NodeFunction, Name: "A"},
	))
	ix.AddDocument("b.go", docFor("b.go",
		types.Node{ID: "pkg.B", FQN: "pkg.B", Kind: types.NodeFunction, Name: "B"},
	))

	ix.RemoveFile("a.go")

	_, ok := ix.Get("pkg.A")
	assert.False(t, ok)
	assert.Empty(t, ix.ByName("A"))

	_, ok = ix.Get("pkg.B")
	assert.True(t, ok)
	assert.Equal(t, []string{"pkg.B"}, ix.ByName("B"))
}
