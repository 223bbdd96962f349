package middleware

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/schema"
)

// Validate checks the request arguments against the tool's declared input
// schema. Violations come back as a Go error so the server answers with a
// JSON-RPC error and the handler never runs.
func Validate(tool mcp.Tool) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := schema.Validate(tool.Name, tool.InputSchema, request.Params.Arguments); err != nil {
				return nil, err
			}

			return next(ctx, request)
		}
	}
}
