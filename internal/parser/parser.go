// Package parser implements the language plugin contract and parsing
// service of spec §4.1: a registry of LanguagePlugin values, one per
// tree-sitter grammar, and a pooled Service that turns file bytes into a
// parsed tree plus the plugin that should interpret it.
package parser

import (
	"context"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseResult is everything the L1 IR builder needs from one parse: the
// tree, the plugin (for control-flow/body-field classification), and the
// source bytes the tree's byte ranges index into.
type ParseResult struct {
	Tree    *tree_sitter.Tree
	Plugin  LanguagePlugin
	Content []byte
}

// Close releases the underlying tree-sitter tree. Callers must call this
// once done walking the result.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Service parses file content into ParseResults, pooling tree_sitter.Parser
// instances per language so concurrent pipeline workers don't pay
// allocation cost on every file (spec §5 concurrency model).
type Service struct {
	registry *Registry
	pools    map[string]*sync.Pool // keyed by plugin name
	mu       sync.Mutex
}

// NewService builds a parsing service over the given registry.
func NewService(registry *Registry) *Service {
	return &Service{
		registry: registry,
		pools:    make(map[string]*sync.Pool),
	}
}

// Registry returns the underlying plugin registry.
func (s *Service) Registry() *Registry { return s.registry }

func (s *Service) poolFor(p LanguagePlugin) *sync.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pl, ok := s.pools[p.Name()]; ok {
		return pl
	}
	lang := p.Language()
	pl := &sync.Pool{
		New: func() any {
			ts := tree_sitter.NewParser()
			_ = ts.SetLanguage(lang)
			return ts
		},
	}
	s.pools[p.Name()] = pl
	return pl
}

// ParseExtension parses content whose file extension is ext. It returns
// an error if no plugin is registered for that extension.
func (s *Service) ParseExtension(ctx context.Context, ext string, content []byte) (*ParseResult, error) {
	plugin, ok := s.registry.ForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("parser: no language plugin registered for extension %q", ext)
	}
	return s.Parse(ctx, plugin, content)
}

// Parse parses content with a specific plugin's grammar.
func (s *Service) Parse(ctx context.Context, plugin LanguagePlugin, content []byte) (*ParseResult, error) {
	pool := s.poolFor(plugin)
	ts := pool.Get().(*tree_sitter.Parser)
	defer pool.Put(ts)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tree := ts.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: %s grammar failed to produce a tree", plugin.Name())
	}
	return &ParseResult{Tree: tree, Plugin: plugin, Content: content}, nil
}

// DefaultRegistry builds a registry of exactly the plugins passed in; it
// is NewRegistry under another name and adds no plugins of its own.
func DefaultRegistry(plugins ...LanguagePlugin) *Registry {
	return NewRegistry(plugins...)
}

// GetLanguageFromExtension maps a file extension to its canonical
// language name without needing a Service.
func GetLanguageFromExtension(ext string) string {
	switch ext {
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".rs":
		return "rust"
	case ".cpp", ".cc", ".cxx", ".c", ".h", ".hpp":
		return "cpp"
	case ".java":
		return "java"
	case ".cs":
		return "csharp"
	case ".zig":
		return "zig"
	case ".php", ".phtml":
		return "php"
	default:
		return ""
	}
}
