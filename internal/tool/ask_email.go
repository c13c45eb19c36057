package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-ask/internal/assistant"
)

// AskEmailRequest is a natural-language question about the mailbox.
type AskEmailRequest struct {
	Question string `json:"question" jsonschema:"question about your email, e.g. who emailed me today"`
}

// AskEmailResponse holds the answer and how it was found.
type AskEmailResponse struct {
	Answer   string           `json:"answer" jsonschema:"answer synthesized from matching emails"`
	Query    string           `json:"query" jsonschema:"Gmail search query that was executed"`
	Messages []MessageSummary `json:"messages" jsonschema:"emails used as context"`
}

type asker interface {
	Ask(ctx context.Context, question string) (assistant.Result, error)
}

// NewAskEmail creates a new AskEmail tool.
func NewAskEmail(a asker) *AskEmail {
	return &AskEmail{a: a}
}

// AskEmail answers questions through the assistant pipeline.
type AskEmail struct {
	a asker
}

// AskEmail runs one question end to end.
func (t *AskEmail) AskEmail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskEmailRequest,
) (*mcp.CallToolResult, AskEmailResponse, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskEmailResponse{}, errors.New("question must not be empty")
	}

	res, err := t.a.Ask(ctx, question)
	if err != nil {
		return nil, AskEmailResponse{}, fmt.Errorf("a.Ask failed: %w", err)
	}

	return nil, AskEmailResponse{
		Answer:   res.Answer,
		Query:    res.Query,
		Messages: summarize(res.Messages),
	}, nil
}
