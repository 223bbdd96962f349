package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
)

// Recover turns a handler panic into a text result.
func Recover(logger *log.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("tool panicked", "tool", request.Params.Name, "panic", r, "stack", string(debug.Stack()))
					result = tools.NewFailureResult("Error running tool %q: %v: %v", request.Params.Name, tools.ErrInternalError, fmt.Sprint(r))
					err = nil
				}
			}()

			return next(ctx, request)
		}
	}
}
