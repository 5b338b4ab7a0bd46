package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/pagelens/pagelens/internal/answer"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes page search and Q&A tools.
type Server struct {
	retriever   *retrieval.Retriever
	generator   *answer.Generator
	searchLimit int
	mcp         *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(retriever *retrieval.Retriever, generator *answer.Generator, searchLimit int) *Server {
	if searchLimit < 1 {
		searchLimit = 5
	}

	s := &Server{
		retriever:   retriever,
		generator:   generator,
		searchLimit: searchLimit,
	}

	s.mcp = server.NewMCPServer(
		"pagelens",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(searchPageTool, s.handleSearchPage)
	s.mcp.AddTool(askPageTool, s.handleAskPage)

	return s
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
