// Package mcpserver is a thin MCP (Model Context Protocol) adapter over
// the query facade and snapshot store — a language-binding surface,
// explicitly non-core (spec §1 Non-goals: bindings are out of scope,
// but a reference adapter is still worth carrying so the engine has a
// runnable entry point). Grounded on the teacher's internal/mcp
// server.go/handlers.go tool-registration idiom
// (mcp.NewServer/AddTool/jsonschema.Schema), stripped of that
// package's legacy-field-alias machinery since this tool surface has
// no prior wire format to stay compatible with.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codegraph-ir/codegraph/internal/query"
	"github.com/codegraph-ir/codegraph/internal/snapshotstore"
)

// Server exposes query_nodes/stats/list_snapshots as MCP tools.
type Server struct {
	server *mcp.Server
	graph  atomic.Pointer[query.Graph]
	store  *snapshotstore.Store
}

// New builds a server with name/version and registers its tools.
func New(name, version string, store *snapshotstore.Store) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		store:  store,
	}
	s.registerTools()
	return s
}

// SetGraph swaps in the graph built from the most recent analysis run.
// Safe to call while QueryNodes/Stats are being served concurrently:
// Graph itself never mutates after construction, so in-flight queries
// against the old pointer finish against a consistent view.
func (s *Server) SetGraph(g *query.Graph) {
	s.graph.Store(g)
}

// Run serves tool calls over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "query_nodes",
		Description: "Filter IR nodes by kind, name, FQN or file path against the currently loaded snapshot.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"kind":        {Type: "string", Description: "PascalCase NodeKind, e.g. Function"},
				"name":        {Type: "string"},
				"name_prefix": {Type: "string"},
				"name_suffix": {Type: "string"},
				"fqn":         {Type: "string"},
				"fqn_prefix":  {Type: "string"},
				"file_path":   {Type: "string"},
				"limit":       {Type: "integer"},
				"offset":      {Type: "integer"},
			},
		},
	}, s.handleQueryNodes)

	s.server.AddTool(&mcp.Tool{
		Name:        "stats",
		Description: "Report node and edge counts for the currently loaded snapshot.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStats)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_snapshots",
		Description: "List the most recent snapshots for a repository, newest first.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"repo_id": {Type: "string"},
				"limit":   {Type: "integer"},
			},
			Required: []string{"repo_id"},
		},
	}, s.handleListSnapshots)
}

type queryNodesParams struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	NamePrefix string `json:"name_prefix"`
	NameSuffix string `json:"name_suffix"`
	FQN        string `json:"fqn"`
	FQNPrefix  string `json:"fqn_prefix"`
	FilePath   string `json:"file_path"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

func (s *Server) handleQueryNodes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p queryNodesParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("query_nodes", fmt.Errorf("invalid parameters: %w", err))
	}

	g := s.graph.Load()
	if g == nil {
		return errorResponse("query_nodes", fmt.Errorf("no snapshot loaded"))
	}

	result := g.QueryNodes(query.Filter{
		Kind: p.Kind, Name: p.Name, NamePrefix: p.NamePrefix, NameSuffix: p.NameSuffix,
		FQN: p.FQN, FQNPrefix: p.FQNPrefix, FilePath: p.FilePath,
		Limit: p.Limit, Offset: p.Offset,
	})
	return jsonResponse(result)
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g := s.graph.Load()
	if g == nil {
		return errorResponse("stats", fmt.Errorf("no snapshot loaded"))
	}
	return jsonResponse(g.Stats())
}

type listSnapshotsParams struct {
	RepoID string `json:"repo_id"`
	Limit  int    `json:"limit"`
}

func (s *Server) handleListSnapshots(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p listSnapshotsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("list_snapshots", fmt.Errorf("invalid parameters: %w", err))
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	snaps := s.store.ListSnapshots(p.RepoID, limit)
	return jsonResponse(snaps)
}
