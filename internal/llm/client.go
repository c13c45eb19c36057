// Package llm talks to a hosted chat-completion model (Groq by default) to turn
// questions into search filters and mail context into answers.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.1-8b-instant"
)

var errNoChoices = errors.New("no choices in completion")

type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client is a single-turn chat-completion client.
type Client struct {
	api   openai.Client
	model string
}

// NewClient creates a client for an OpenAI-compatible API. Empty baseURL and
// model fall back to the Groq defaults. The SDK's automatic retries are off.
func NewClient(apiKey, baseURL, model string, opts ...option.RequestOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)

	return &Client{
		api:   openai.NewClient(reqOpts...),
		model: model,
	}
}

// Complete sends a system instruction and one user message, returning the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model: shared.ChatModel(c.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat.Completions.New failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errNoChoices
	}

	return completion.Choices[0].Message.Content, nil
}
