package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegraph-ir/codegraph/internal/query"
	"github.com/codegraph-ir/codegraph/internal/snapshotstore"
	"github.com/codegraph-ir/codegraph/internal/types"
)

func req(t *testing.T, params interface{}) *mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: data}}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleQueryNodesWithoutGraphReturnsError(t *testing.T) {
	s := New("codegraph-test", "0.0.0", snapshotstore.New())
	result, err := s.handleQueryNodes(context.Background(), req(t, queryNodesParams{}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), `"success":false`)
}

func TestHandleQueryNodesFiltersLoadedGraph(t *testing.T) {
	s := New("codegraph-test", "0.0.0", snapshotstore.New())
	doc := types.Document{
		Nodes: []types.Node{
			{ID: "f1", FQN: "pkg.Func", Kind: types.NodeFunction, Name: "Func", FilePath: "a.go"},
			{ID: "c1", FQN: "pkg.Thing", Kind: types.NodeClass, Name: "Thing", FilePath: "a.go"},
		},
	}
	s.SetGraph(query.FromDocument(doc))

	result, err := s.handleQueryNodes(context.Background(), req(t, queryNodesParams{Kind: "Function"}))
	require.NoError(t, err)

	var decoded query.Result
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &decoded))
	assert.Equal(t, 1, decoded.Count)
	assert.Equal(t, "Func", decoded.Nodes[0].Name)
}

func TestHandleStatsWithoutGraphReturnsError(t *testing.T) {
	s := New("codegraph-test", "0.0.0", snapshotstore.New())
	result, err := s.handleStats(context.Background(), req(t, struct{}{}))
	require.NoError(t, err)
	assert.Contains(t, textOf(t, result), `"success":false`)
}

func TestHandleStatsReportsCounts(t *testing.T) {
	s := New("codegraph-test", "0.0.0", snapshotstore.New())
	s.SetGraph(query.FromDocument(types.Document{
		Nodes: []types.Node{{ID: "f1", Kind: types.NodeFunction}},
		Edges: []types.Edge{{Source: "f1", Target: "f1"}},
	}))

	result, err := s.handleStats(context.Background(), req(t, struct{}{}))
	require.NoError(t, err)

	var stats query.Stats
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	assert.Equal(t, 1, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)
}

func TestHandleListSnapshotsReturnsNewestFirst(t *testing.T) {
	store := snapshotstore.New()
	older := types.Snapshot{ID: "c1", RepoID: "repo", CreatedAt: time.Unix(1, 0)}
	newer := types.Snapshot{ID: "c2", RepoID: "repo", ParentID: "c1", CreatedAt: time.Unix(2, 0)}
	require.NoError(t, store.SaveSnapshot(older))
	require.NoError(t, store.SaveSnapshot(newer))

	s := New("codegraph-test", "0.0.0", store)
	result, err := s.handleListSnapshots(context.Background(), req(t, listSnapshotsParams{RepoID: "repo"}))
	require.NoError(t, err)

	var snaps []types.Snapshot
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, types.SnapshotID("c2"), snaps[0].ID)
}
