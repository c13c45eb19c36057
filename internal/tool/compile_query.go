package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-ask/internal/query"
)

// CompileQueryResponse is the Gmail search string for a filter.
type CompileQueryResponse struct {
	Query string `json:"query" jsonschema:"Gmail search query, empty when nothing is constrained"`
}

// CompileQuery shows the search string a filter compiles to, without touching the mailbox.
func CompileQuery(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input query.SearchFilter,
) (*mcp.CallToolResult, CompileQueryResponse, error) {
	return nil, CompileQueryResponse{Query: query.Compile(input)}, nil
}
