// Package transport carries MCP messages to and from the tool server, either
// as newline-delimited JSON-RPC on stdio or as one message per HTTP POST.
package transport

import (
	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"
)

// ServeStdio blocks serving s on stdin/stdout until the input closes or the
// process is signalled.
func ServeStdio(s *server.MCPServer, logger *log.Logger) error {
	logger.Info("serving MCP over stdio")

	if err := server.ServeStdio(s); err != nil {
		return err
	}

	logger.Info("stdio transport closed")
	return nil
}
