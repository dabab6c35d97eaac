package cost

import (
	"context"
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/flow"
	"github.com/codegraph-ir/codegraph/internal/parser"
	"github.com/codegraph-ir/codegraph/internal/parser/plugins"
	"github.com/codegraph-ir/codegraph/internal/types"
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

func buildCFG(t *testing.T, src, fn string) (*flow.CFG, []byte) {
	t.Helper()
	res := parseGo(t, src)
	node, ok := findFuncDecl(*res.Tree.RootNode(), res.Content, fn)
	require.True(t, ok)
	cfg := flow.Build(res.Plugin, node)
	return cfg, res.Content
}

func TestAnalyzeStraightLineIsConstant(t *testing.T) {
	src := "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n"
	cfg, content := buildCFG(t, src, "add")

	result := Analyze(cfg, content)
	assert.Equal(t, "O(1)", result.Term)
	assert.Equal(t, types.VerdictProven, result.Verdict)
	assert.Empty(t, result.Loops)
}

func TestAnalyzeSingleLoopIsLinear(t *testing.T) {
	src := "package main\n\nfunc sum(n int) int {\n\ttotal := 0\n\tfor i := 0; i < n; i++ {\n\t\ttotal += i\n\t}\n\treturn total\n}\n"
	cfg, content := buildCFG(t, src, "sum")

	result := Analyze(cfg, content)
	require.NotEmpty(t, result.Loops)
	assert.Equal(t, "O(n)", result.Term)
}

func TestInferBoundRecognizesPatterns(t *testing.T) {
	assert.Equal(t, Bound{Kind: BoundConstant, Constant: 10}, InferBound("for i := range(10) {"))
	assert.Equal(t, BoundSymbolicLen, InferBound("for _, v := range items {").Kind)
	assert.Equal(t, BoundSymbolicLen, InferBound("if len(items) > 0 {").Kind)
	assert.Equal(t, BoundUnknown, InferBound("for cursor.Next() {").Kind)
}

func TestNestingDepthCountsEnclosingLoops(t *testing.T) {
	src := "package main\n\nfunc pairs(n int) int {\n\tc := 0\n\tfor i := 0; i < n; i++ {\n\t\tfor j := 0; j < n; j++ {\n\t\t\tc++\n\t\t}\n\t}\n\treturn c\n}\n"
	cfg, content := buildCFG(t, src, "pairs")

	result := Analyze(cfg, content)
	assert.Equal(t, "O(n²)", result.Term)
}
