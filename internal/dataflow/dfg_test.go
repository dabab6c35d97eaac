package dataflow

import (
	"context"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/parser"
	"github.com/codegraph-ir/codegraph/internal/parser/plugins"
)

func parseGo(t *testing.T, src string) *parser.ParseResult {
	t.Helper()
	reg := parser.NewRegistry(plugins.NewGo())
	svc := parser.NewService(reg)
	res, err := svc.ParseExtension(context.Background(), ".go", []byte(src))
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return res
}

func findFuncDecl(n tree_sitter.Node, content []byte, name string) (tree_sitter.Node, bool) {
	if n.Kind() == "function_declaration" {
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			if string(content[nameNode.StartByte():nameNode.EndByte()]) == name {
				return n, true
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if child == nil {
			continue
		}
		if found, ok := findFuncDecl(*child, content, name); ok {
			return found, true
		}
	}
	return tree_sitter.Node{}, false
}

func TestBuildDefUseLinksStraightLine(t *testing.T) {
	src := "package main\n\nfunc add(a, b int) int {\n\tc := a + b\n\treturn c\n}\n"
	res := parseGo(t, src)
	fn, ok := findFuncDecl(*res.Tree.RootNode(), res.Content, "add")
	require.True(t, ok)

	_, dfg := Build(res.Plugin, fn, res.Content)

	var cDef, cUse int = -1, -1
	for _, n := range dfg.Nodes {
		if n.Variable == "c" && n.Kind == DFDef {
			cDef = n.ID
		}
		if n.Variable == "c" && n.Kind == DFUse {
			cUse = n.ID
		}
	}
	require.NotEqual(t, -1, cDef)
	require.NotEqual(t, -1, cUse)

	found := false
	for _, e := range dfg.Edges {
		if e.Def == cDef && e.Use == cUse {
			found = true
		}
	}
	assert.True(t, found, "expected def-use edge from c's definition to its use in return")
}

func TestBuildSSAInsertsPhiAtMerge(t *testing.T) {
	src := "package main\n\nfunc abs(n int) int {\n\tvar r int\n\tif n < 0 {\n\t\tr = -n\n\t} else {\n\t\tr = n\n\t}\n\treturn r\n}\n"
	res := parseGo(t, src)
	fn, ok := findFuncDecl(*res.Tree.RootNode(), res.Content, "abs")
	require.True(t, ok)

	cfg, dfg := Build(res.Plugin, fn, res.Content)
	ssa := BuildSSA(cfg, dfg)

	foundPhiForR := false
	for _, p := range ssa.Phis {
		if p.Variable == "r" {
			foundPhiForR = true
		}
	}
	assert.True(t, foundPhiForR, "expected a phi for r at the if/else merge block")
}
