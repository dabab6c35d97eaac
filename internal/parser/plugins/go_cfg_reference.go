package plugins

import (
	"go/ast"
	"go/parser"
	"go/token"

	"golang.org/x/tools/go/cfg"
)

// ReferenceBlockCount parses a single Go function body with go/parser
// and builds its control-flow graph with golang.org/x/tools/go/cfg,
// returning the block count. This is a cross-check reference for the
// tree-sitter-based ControlFlowType table above, not part of the IR
// build's hot path: it exists so the Go plugin's control-flow
// classification can be validated against the standard library's own
// notion of basic blocks.
func ReferenceBlockCount(src string) (int, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "reference.go", "package p\n"+src, 0)
	if err != nil {
		return 0, err
	}

	var body *ast.BlockStmt
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Body != nil {
			body = fn.Body
			break
		}
	}
	if body == nil {
		return 0, nil
	}

	g := cfg.New(body, func(*ast.CallExpr) bool { return true })
	return len(g.Blocks), nil
}
