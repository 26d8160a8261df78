// Package mcp exposes the summarization pipeline as MCP tools so agents can
// call the fetch and summarize stages individually or together.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"url-summarizer/internal/domain/entity"
)

// Pipeline is the subset of *summary.Service the tools need.
type Pipeline interface {
	Summarize(ctx context.Context, req entity.SummaryRequest) (entity.SummaryResult, error)
	Fetch(ctx context.Context, url string) (entity.ScrapedContent, error)
	SummarizeContent(ctx context.Context, content string, opts entity.SummaryOptions) (string, error)
}

// Server wraps an MCP server with the summarization tools registered.
type Server struct {
	pipeline  Pipeline
	mcpServer *server.MCPServer
}

// NewServer creates the tool server.
func NewServer(p Pipeline, version string) *Server {
	s := &Server{pipeline: p}
	s.mcpServer = server.NewMCPServer(
		"url-summarizer",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying server for a transport to serve.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
