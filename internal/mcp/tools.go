package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPageTool defines the search_page MCP tool.
var searchPageTool = mcp.NewTool("search_page",
	mcp.WithDescription("Semantically search the ingested page content. Returns the most relevant chunks with their heading trail and relevance score."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of chunks to return (default 5)"),
	),
)

// askPageTool defines the ask_page MCP tool.
var askPageTool = mcp.NewTool("ask_page",
	mcp.WithDescription("Ask a question about the ingested page content. Returns a cited answer followed by the numbered sources it draws on."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer from the page"),
	),
)
