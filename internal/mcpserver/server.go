// Package mcpserver exposes the post wizard to agents as MCP tools over
// streamable HTTP.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// DefaultAddr binds to a random loopback port.
const DefaultAddr = "127.0.0.1:0"

// Server manages an MCP HTTP server driving one wizard controller.
type Server struct {
	wizard     *wizard.Controller
	sinks      *export.Sinks
	version    string
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	port       int
	mu         sync.Mutex
}

// New creates a server for the controller. The server is not started until
// Start is called. sinks may be nil, which disables the export tools.
func New(c *wizard.Controller, sinks *export.Sinks, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		wizard:  c,
		sinks:   sinks,
		version: version,
	}
	s.mcpServer = server.NewMCPServer(
		"postgenie",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start listens on addr (DefaultAddr when empty) and serves /mcp in the
// background. It returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}
	if addr == "" {
		addr = DefaultAddr
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	// Capture stdServer for the goroutine to avoid racing with Stop().
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
