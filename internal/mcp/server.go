// Package mcp exposes the company search session as MCP tools over stdio
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/igusev/cfl/internal/session"
)

// ServerName is the MCP server name
const ServerName = "cfl"

// Server wraps the MCP server with the search session
type Server struct {
	mcp     *server.MCPServer
	session *session.Session
}

// NewServer creates an MCP server over a loaded (or loading) session
func NewServer(sess *session.Session, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		mcp:     server.NewMCPServer(ServerName, version),
		session: sess,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCompaniesTool(), s.handleSearchCompanies)
	s.mcp.AddTool(cacheStatsTool(), s.handleCacheStats)
	s.mcp.AddTool(clearCacheTool(), s.handleClearCache)
	s.mcp.AddTool(reloadTool(), s.handleReload)
}
