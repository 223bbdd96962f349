// Package middleware provides the wrappers every registered tool handler runs
// through: logging, a wall-clock budget, panic recovery and argument validation.
package middleware

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerFunc has the same shape as a core.Tool handler.
type HandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Middleware decorates a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain wraps h so that the first middleware listed is the outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}
