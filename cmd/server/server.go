package main

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/config"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/forecast"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/geocode"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/registry"
	geocodetool "github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/geocode"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools/weather"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/upstream"
)

// app is the wired server: one shared HTTP client, both tools registered.
type app struct {
	registry *registry.Registry
}

func newServer(cfg *config.Config, logger *log.Logger) (*app, error) {
	provider, err := cfg.GeocodingProvider()
	if err != nil {
		return nil, err
	}

	client := upstream.New(&http.Client{Timeout: cfg.HTTP.Timeout}, cfg.HTTP.UserAgent)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithLogging(),
	)

	reg := registry.New(mcpServer, logger, cfg.Server.MaxDuration)

	if err := reg.Register(geocodetool.New(geocode.NewResolver(provider, client))); err != nil {
		return nil, err
	}

	if err := reg.Register(weather.New(forecast.New(client, cfg.ForecastOptions()))); err != nil {
		return nil, err
	}

	return &app{registry: reg}, nil
}
