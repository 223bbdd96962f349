package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
	"github.com/theapemachine/mcp-server-weather-bridge/core"
	geo "github.com/theapemachine/mcp-server-weather-bridge/pkg/geocode"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/upstream"
)

// MockResolver mocks the coordinate resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(geo.Coordinates), args.Error(1)
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = Name
	req.Params.Arguments = args
	return req
}

func TestGeocodeTool(t *testing.T) {
	Convey("Given a geocode tool", t, func() {
		resolver := new(MockResolver)
		tool := New(resolver)
		ctx := context.Background()

		Convey("It should implement the core.Tool interface", func() {
			So(tool, ShouldImplement, (*core.Tool)(nil))
		})

		Convey("It should declare a required address argument", func() {
			handle := tool.Handle()
			So(handle.Name, ShouldEqual, "geocode")
			So(handle.InputSchema.Required, ShouldResemble, []string{"address"})
			So(handle.InputSchema.Properties, ShouldContainKey, "address")
		})

		Convey("When the address resolves", func() {
			resolver.On("Resolve", ctx, "1600 Amphitheatre Parkway, Mountain View, CA").
				Return(geo.Coordinates{Latitude: 37.4224, Longitude: -122.0842}, nil)

			result, err := tool.Handler(ctx, request(map[string]interface{}{
				"address": "1600 Amphitheatre Parkway, Mountain View, CA",
			}))

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(tools.ResultText(result), ShouldEqual, "{\n  \"latitude\": 37.4224,\n  \"longitude\": -122.0842\n}")
			resolver.AssertExpectations(t)
		})

		Convey("When nothing matches", func() {
			resolver.On("Resolve", ctx, "Nowhere").Return(geo.Coordinates{}, geo.ErrNoResults)

			result, err := tool.Handler(ctx, request(map[string]interface{}{"address": "Nowhere"}))

			So(err, ShouldBeNil)
			So(tools.ResultText(result), ShouldEqual, "No geocoding results found for address: Nowhere")
		})

		Convey("When the upstream fails", func() {
			failure := &geo.UpstreamFailure{
				Reason: "upstream returned HTTP status 500",
				Err:    &upstream.HTTPError{Status: 500},
			}
			resolver.On("Resolve", ctx, "Paris").Return(geo.Coordinates{}, failure)

			result, err := tool.Handler(ctx, request(map[string]interface{}{"address": "Paris"}))

			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(tools.ResultText(result), ShouldStartWith, `Error geocoding address "Paris": `)
			So(tools.ResultText(result), ShouldContainSubstring, "500")
		})

		Convey("When the address argument is missing", func() {
			result, err := tool.Handler(ctx, request(map[string]interface{}{}))

			So(err, ShouldBeNil)
			So(tools.ResultText(result), ShouldContainSubstring, "missing required parameter: 'address'")
			resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
		})

		Convey("When the address contains quotes and backslashes", func() {
			address := `a"b\c`
			resolver.On("Resolve", ctx, address).Return(geo.Coordinates{}, errors.New("boom"))

			result, _ := tool.Handler(ctx, request(map[string]interface{}{"address": address}))
			So(tools.ResultText(result), ShouldEqual, `Error geocoding address "a"b\c": boom`)
		})

		Convey("When the resolver reports an unexpected error", func() {
			resolver.On("Resolve", ctx, "Oslo").Return(geo.Coordinates{}, errors.New("boom"))

			result, _ := tool.Handler(ctx, request(map[string]interface{}{"address": "Oslo"}))
			So(tools.ResultText(result), ShouldEqual, `Error geocoding address "Oslo": boom`)
		})
	})
}
