package middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/schema"
)

type pointArgs struct {
	Latitude float64 `json:"latitude" jsonschema:"required,minimum=-90,maximum=90"`
}

func request(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func echo(text string) HandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return tools.NewTextResult(text), nil
	}
}

func TestChain(t *testing.T) {
	Convey("Given a chain of middleware", t, func() {
		var order []string

		trace := func(name string) Middleware {
			return func(next HandlerFunc) HandlerFunc {
				return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					order = append(order, name)
					return next(ctx, request)
				}
			}
		}

		h := Chain(echo("ok"), trace("outer"), trace("middle"), trace("inner"))
		result, err := h(context.Background(), request("t", nil))

		So(err, ShouldBeNil)
		So(tools.ResultText(result), ShouldEqual, "ok")
		So(order, ShouldResemble, []string{"outer", "middle", "inner"})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a tool with a declared schema", t, func() {
		handle := mcp.NewTool("point")
		handle.InputSchema = schema.MustFor(&pointArgs{})

		called := false
		h := Validate(handle)(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			called = true
			return tools.NewTextResult("ran"), nil
		})

		Convey("Valid arguments reach the handler", func() {
			result, err := h(context.Background(), request("point", map[string]interface{}{"latitude": 45.0}))
			So(err, ShouldBeNil)
			So(called, ShouldBeTrue)
			So(tools.ResultText(result), ShouldEqual, "ran")
		})

		Convey("Out of range arguments are rejected before the handler", func() {
			result, err := h(context.Background(), request("point", map[string]interface{}{"latitude": 95.0}))
			So(result, ShouldBeNil)
			So(called, ShouldBeFalse)
			So(errors.Is(err, tools.ErrInvalidParams), ShouldBeTrue)

			var verr *schema.ValidationError
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Tool, ShouldEqual, "point")
		})

		Convey("Missing arguments are rejected", func() {
			_, err := h(context.Background(), request("point", nil))
			So(err, ShouldNotBeNil)
			So(called, ShouldBeFalse)
		})
	})
}

func TestTimeout(t *testing.T) {
	Convey("Given a handler under a budget", t, func() {
		Convey("A fast handler returns normally", func() {
			h := Timeout(time.Second)(echo("fast"))
			result, err := h(context.Background(), request("t", nil))
			So(err, ShouldBeNil)
			So(tools.ResultText(result), ShouldEqual, "fast")
		})

		Convey("A slow handler is abandoned with a deadline error", func() {
			release := make(chan struct{})
			defer close(release)

			h := Timeout(20 * time.Millisecond)(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				<-release
				return tools.NewTextResult("late"), nil
			})

			result, err := h(context.Background(), request("slow", nil))
			So(result, ShouldBeNil)
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)

			var deadline *DeadlineExceededError
			So(errors.As(err, &deadline), ShouldBeTrue)
			So(deadline.Tool, ShouldEqual, "slow")
		})

		Convey("A zero budget leaves the handler untouched", func() {
			h := Timeout(0)(echo("free"))
			result, err := h(context.Background(), request("t", nil))
			So(err, ShouldBeNil)
			So(tools.ResultText(result), ShouldEqual, "free")
		})
	})
}

func TestRecover(t *testing.T) {
	Convey("Given a handler that panics", t, func() {
		var buf bytes.Buffer
		logger := log.New(&buf)

		h := Recover(logger)(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			panic("kaboom")
		})

		result, err := h(context.Background(), request("geocode", nil))

		So(err, ShouldBeNil)
		So(result, ShouldNotBeNil)
		So(tools.ResultText(result), ShouldEqual, `Error running tool "geocode": internal server error: kaboom`)
		So(buf.String(), ShouldContainSubstring, "tool panicked")
	})
}

func TestLogging(t *testing.T) {
	Convey("Given a logged handler", t, func() {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

		var seen string
		h := Logging(logger)(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			seen = InvocationID(ctx)
			return tools.NewTextResult("ok"), nil
		})

		_, err := h(context.Background(), request("weather", nil))

		So(err, ShouldBeNil)
		So(seen, ShouldNotBeEmpty)
		So(buf.String(), ShouldContainSubstring, "tool call completed")
		So(buf.String(), ShouldContainSubstring, seen)
		So(buf.String(), ShouldContainSubstring, "weather")

		Convey("Rejections are logged with the error", func() {
			buf.Reset()
			h := Logging(logger)(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, errors.New("bad args")
			})

			_, err := h(context.Background(), request("weather", nil))
			So(err, ShouldNotBeNil)
			So(buf.String(), ShouldContainSubstring, "tool call rejected")
			So(buf.String(), ShouldContainSubstring, "bad args")
		})
	})
}

func TestInvocationIDAbsent(t *testing.T) {
	Convey("A bare context has no invocation id", t, func() {
		So(InvocationID(context.Background()), ShouldBeEmpty)
	})
}
