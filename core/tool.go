// Package core holds the contract every MCP tool served by this bridge meets.
package core

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is a named, schema-described operation the registry can dispatch to.
// Handle carries the name and input schema advertised to clients; Handler
// turns a request into a text result.
type Tool interface {
	Handle() mcp.Tool
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
