package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResponse mirrors the teacher's createJSONResponse: marshal data,
// wrap it as a single text content block.
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

// errorResponse reports a tool failure as a structured result rather
// than a transport-level error, so the caller always gets a parseable
// response. Deliberately simpler than the teacher's
// createSmartErrorResponse: no suggestion engine, since this tool
// surface is a thin non-core adapter (spec §1 Non-goals).
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	content, marshalErr := json.Marshal(map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}
