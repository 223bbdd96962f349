// Package weather provides the hourly forecast tool implementation
package weather

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/forecast"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/schema"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/utils"
)

const Name = "weather"

// Arguments declares the tool's input schema.
type Arguments struct {
	Latitude  float64 `json:"latitude" jsonschema:"required,minimum=-90,maximum=90" jsonschema_description:"Latitude in decimal degrees"`
	Longitude float64 `json:"longitude" jsonschema:"required,minimum=-180,maximum=180" jsonschema_description:"Longitude in decimal degrees"`
}

// Forecaster is what the tool needs from the forecast windower.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) (forecast.Window, error)
}

// Tool returns the next hours of forecast for a point.
type Tool struct {
	*tools.BaseTool
	forecaster Forecaster
}

// New creates a new weather tool instance
func New(forecaster Forecaster) *Tool {
	handle := mcp.NewTool(
		Name,
		mcp.WithDescription("Get the hourly temperature and weather forecast for the next 24 hours at the given coordinates."),
	)
	handle.InputSchema = schema.MustFor(&Arguments{})

	return &Tool{
		BaseTool:   tools.NewBaseTool(Name, handle),
		forecaster: forecaster,
	}
}

// Handler processes forecast requests.
func (tool *Tool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := utils.GetRequiredFloat64Param(request, "latitude")
	if err != nil {
		return utils.HandleParameterError(Name, err), nil
	}

	lon, err := utils.GetRequiredFloat64Param(request, "longitude")
	if err != nil {
		return utils.HandleParameterError(Name, err), nil
	}

	window, err := tool.forecaster.Forecast(ctx, lat, lon)
	if err != nil {
		log.Warn("forecast failed", "lat", lat, "lon", lon, "err", err)
		return tools.NewFailureResult("Error fetching forecast for (%v, %v): %v", lat, lon, err), nil
	}

	return tools.NewJSONResult(window), nil
}
