package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoControlFlowClassification(t *testing.T) {
	p := NewGo()
	assert.Equal(t, "go", p.Name())
	require.Contains(t, p.Extensions(), ".go")
	assert.True(t, p.IsControlFlowNode("if_statement"))
	assert.False(t, p.IsControlFlowNode("short_var_declaration"))
}

func TestPythonElifIsNeverChained(t *testing.T) {
	p := NewPython()
	assert.False(t, p.IsChainedCondition(nil))
}

func TestAllPluginsConstruct(t *testing.T) {
	ctors := map[string]func() bool{
		"go":         func() bool { return NewGo() != nil },
		"python":     func() bool { return NewPython() != nil },
		"javascript": func() bool { return NewJavaScript() != nil },
		"typescript": func() bool { return NewTypeScript() != nil },
		"rust":       func() bool { return NewRust() != nil },
		"cpp":        func() bool { return NewCpp() != nil },
		"java":       func() bool { return NewJava() != nil },
		"csharp":     func() bool { return NewCSharp() != nil },
		"php":        func() bool { return NewPHP() != nil },
		"zig":        func() bool { return NewZig() != nil },
	}
	for name, ctor := range ctors {
		t.Run(name, func(t *testing.T) {
			assert.True(t, ctor())
		})
	}
}
