// Package tool exposes the mail assistant as Model Context Protocol tools.
package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with the assistant tools.
func NewServer(a asker) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-ask", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_email",
		Description: "Answer a natural-language question using matching Gmail messages",
	}, NewAskEmail(a).AskEmail)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_query",
		Description: "Compile a structured email filter into Gmail search syntax",
	}, CompileQuery)

	return server
}
