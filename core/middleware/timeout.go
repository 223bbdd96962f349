package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// DeadlineExceededError is returned when a handler runs past its budget.
type DeadlineExceededError struct {
	Tool   string
	Budget time.Duration
}

func (e *DeadlineExceededError) Error() string {
	return fmt.Sprintf("tool %q exceeded its %s budget", e.Tool, e.Budget)
}

func (e *DeadlineExceededError) Unwrap() error {
	return context.DeadlineExceeded
}

type outcome struct {
	result *mcp.CallToolResult
	err    error
}

// Timeout bounds a single invocation to d. The handler keeps running in its
// goroutine after an overrun; only the caller stops waiting. A non-positive d
// disables the budget.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if d <= 0 {
			return next
		}

		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan outcome, 1)

			go func() {
				result, err := next(ctx, request)
				done <- outcome{result: result, err: err}
			}()

			select {
			case out := <-done:
				return out.result, out.err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					return nil, &DeadlineExceededError{Tool: request.Params.Name, Budget: d}
				}

				return nil, ctx.Err()
			}
		}
	}
}
