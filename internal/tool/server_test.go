package tool_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-ask/internal/assistant"
	"github.com/hal9000y/gmail-ask/internal/format"
	"github.com/hal9000y/gmail-ask/internal/query"
	"github.com/hal9000y/gmail-ask/internal/tool"
)

type askerMock struct {
	AskFunc func(ctx context.Context, question string) (assistant.Result, error)
}

func (m *askerMock) Ask(ctx context.Context, question string) (assistant.Result, error) {
	return m.AskFunc(ctx, question)
}

func newSession(t *testing.T, a *askerMock) *mcp.ClientSession {
	t.Helper()

	server := tool.NewServer(a)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	return clientSession
}

func TestAskEmail(t *testing.T) {
	session := newSession(t, &askerMock{
		AskFunc: func(_ context.Context, question string) (assistant.Result, error) {
			if question == "break" {
				return assistant.Result{}, fmt.Errorf("simulated error: %s", question)
			}
			return assistant.Result{
				Filter: query.SearchFilter{DateRange: query.DateToday},
				Query:  "newer_than:1d",
				Messages: []format.Message{
					{
						To:      "Me <me@example.com>, other@example.com",
						From:    "\"Ali K\" <ali@gmail.com>",
						Subject: "Lunch",
						Body:    "See you at noon",
					},
				},
				Answer: "Ali emailed you today.",
			}, nil
		},
	})

	cases := []struct {
		name        string
		req         tool.AskEmailRequest
		expected    tool.AskEmailResponse
		expectedErr error
	}{
		{
			name: "answer",
			req:  tool.AskEmailRequest{Question: "who emailed me today?"},
			expected: tool.AskEmailResponse{
				Answer: "Ali emailed you today.",
				Query:  "newer_than:1d",
				Messages: []tool.MessageSummary{
					{
						From: tool.EmailAddress{Name: "Ali K", Email: "ali@gmail.com"},
						To: []tool.EmailAddress{
							{Name: "Me", Email: "me@example.com"},
							{Email: "other@example.com"},
						},
						Subject: "Lunch",
					},
				},
			},
		},
		{
			name:        "pipeline_error",
			req:         tool.AskEmailRequest{Question: "break"},
			expectedErr: fmt.Errorf("simulated error: break"),
		},
		{
			name:        "empty_question",
			req:         tool.AskEmailRequest{Question: "   "},
			expectedErr: fmt.Errorf("question must not be empty"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      "ask_email",
				Arguments: tc.req,
			})
			require.NoError(t, err)
			require.NotNil(t, result)
			require.NotEmpty(t, result.Content)

			if tc.expectedErr != nil {
				require.True(t, result.IsError, "Result should indicate error")

				errorText := result.Content[0].(*mcp.TextContent).Text
				assert.Contains(t, errorText, tc.expectedErr.Error())
				return
			}

			var response tool.AskEmailResponse
			require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &response))
			assert.Equal(t, tc.expected, response)
		})
	}
}

func TestCompileQuery(t *testing.T) {
	session := newSession(t, &askerMock{
		AskFunc: func(context.Context, string) (assistant.Result, error) {
			t.Fatal("compile_query must not call the assistant")
			return assistant.Result{}, nil
		},
	})

	cases := []struct {
		name     string
		args     map[string]any
		expected string
	}{
		{
			name:     "empty",
			args:     map[string]any{},
			expected: "",
		},
		{
			name: "full",
			args: map[string]any{
				"from":             "a@b.com",
				"to":               "c@d.com",
				"subject_keywords": []string{"invoice", "urgent"},
				"contains":         []string{"refund"},
				"date_range":       "yesterday",
			},
			expected: "from:a@b.com to:c@d.com subject:invoice subject:urgent refund newer_than:2d older_than:1d",
		},
		{
			name:     "unknown_date",
			args:     map[string]any{"date_range": "bogus"},
			expected: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      "compile_query",
				Arguments: tc.args,
			})
			require.NoError(t, err)
			require.False(t, result.IsError, "compile_query failed: %v", result.Content)

			var response tool.CompileQueryResponse
			require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &response))
			assert.Equal(t, tc.expected, response.Query)
		})
	}
}
