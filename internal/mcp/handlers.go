package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pagelens/pagelens/internal/retrieval"
)

// handleSearchPage performs semantic search over the ingested page chunks.
func (s *Server) handleSearchPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", s.searchLimit)
	if limit <= 0 {
		limit = s.searchLimit
	}

	results, err := s.retriever.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The page may not be ingested yet. Run `pagelens ingest` first."), nil
	}

	return mcp.NewToolResultText(retrieval.FormatSources(results)), nil
}

// handleAskPage runs the full retrieve/generate/cite pipeline for a question.
func (s *Server) handleAskPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	results, err := s.retriever.Search(ctx, question, s.searchLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	text, err := s.generator.Generate(ctx, question, results, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answer generation failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(text)
	if len(results) > 0 {
		sb.WriteString("\n\nSources:\n")
		sb.WriteString(retrieval.FormatSources(results))
	}

	return mcp.NewToolResultText(sb.String()), nil
}
