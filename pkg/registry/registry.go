// Package registry binds tools to the MCP server, one handler per name, each
// wrapped in the standard middleware chain.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/theapemachine/mcp-server-weather-bridge/core"
	"github.com/theapemachine/mcp-server-weather-bridge/core/middleware"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/tools"
)

// ErrDuplicateTool is returned when a name is registered twice.
var ErrDuplicateTool = errors.New("tool already registered")

// Registry manages tool registration on an MCP server.
type Registry struct {
	mu          sync.RWMutex
	server      *server.MCPServer
	tools       map[string]core.Tool
	logger      *log.Logger
	maxDuration time.Duration
}

// New creates a registry that adds tools to mcpServer. Each invocation is
// bounded by maxDuration; zero disables the budget.
func New(mcpServer *server.MCPServer, logger *log.Logger, maxDuration time.Duration) *Registry {
	if logger == nil {
		logger = log.Default()
	}

	return &Registry{
		server:      mcpServer,
		tools:       make(map[string]core.Tool),
		logger:      logger,
		maxDuration: maxDuration,
	}
}

// Register adds tool to the server. Names must be unique and non-empty.
func (r *Registry) Register(tool core.Tool) error {
	handle := tool.Handle()

	if handle.Name == "" {
		return tools.WrapError(tools.ErrInvalidParams, "register tool: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[handle.Name]; exists {
		return fmt.Errorf("register tool %q: %w", handle.Name, ErrDuplicateTool)
	}

	h := middleware.Chain(
		tool.Handler,
		middleware.Logging(r.logger),
		middleware.Timeout(r.maxDuration),
		middleware.Recover(r.logger),
		middleware.Validate(handle),
	)

	r.tools[handle.Name] = tool
	r.server.AddTool(handle, server.ToolHandlerFunc(h))
	r.logger.Debug("registered tool", "tool", handle.Name)

	return nil
}

// MustRegister registers every tool, panicking on the first failure.
func (r *Registry) MustRegister(ts ...core.Tool) {
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Tools returns the registered tool handles sorted by name.
func (r *Registry) Tools() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mcp.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Handle())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out
}

// Server returns the underlying MCP server.
func (r *Registry) Server() *server.MCPServer {
	return r.server
}
