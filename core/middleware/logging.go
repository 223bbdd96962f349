package middleware

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

type invocationKey struct{}

// InvocationID returns the id Logging attached to ctx, if any.
func InvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// Logging tags each call with an invocation id and records its duration and
// outcome.
func Logging(logger *log.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id := uuid.NewString()
			ctx = context.WithValue(ctx, invocationKey{}, id)
			l := logger.With("tool", request.Params.Name, "invocation", id)

			l.Debug("tool call started")
			start := time.Now()

			result, err := next(ctx, request)

			elapsed := time.Since(start)
			if err != nil {
				l.Warn("tool call rejected", "duration", elapsed, "err", err)
				return result, err
			}

			l.Info("tool call completed", "duration", elapsed)
			return result, nil
		}
	}
}
