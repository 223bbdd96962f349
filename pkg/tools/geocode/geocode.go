// Package geocode provides the geocode tool implementation
package geocode

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	geo "github.com/theapemachine/mcp-server-weather-bridge/pkg/geocode"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/schema"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/utils"
)

const Name = "geocode"

// Arguments declares the tool's input schema.
type Arguments struct {
	Address string `json:"address" jsonschema:"required,minLength=1" jsonschema_description:"The address to geocode"`
}

// Resolver is what the tool needs from the coordinate resolver.
type Resolver interface {
	Resolve(ctx context.Context, address string) (geo.Coordinates, error)
}

// Tool resolves addresses to coordinates.
type Tool struct {
	*tools.BaseTool
	resolver Resolver
}

// New creates a new geocode tool instance
func New(resolver Resolver) *Tool {
	handle := mcp.NewTool(
		Name,
		mcp.WithDescription("Geocode an address to get latitude and longitude coordinates."),
	)
	handle.InputSchema = schema.MustFor(&Arguments{})

	return &Tool{
		BaseTool: tools.NewBaseTool(Name, handle),
		resolver: resolver,
	}
}

// Handler processes geocode requests. Every outcome, including failures, is
// returned as text.
func (tool *Tool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := utils.GetRequiredStringParam(request, "address")
	if err != nil {
		return utils.HandleParameterError(Name, err), nil
	}

	coords, err := tool.resolver.Resolve(ctx, address)

	switch {
	case errors.Is(err, geo.ErrNoResults):
		return tools.NewTextResult("No geocoding results found for address: " + address), nil
	case err != nil:
		log.Warn("geocoding failed", "address", address, "err", err)
		return tools.NewFailureResult("Error geocoding address \"%s\": %v", address, err), nil
	}

	return tools.NewJSONResult(coords), nil
}
