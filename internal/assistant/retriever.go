package assistant

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-ask/internal/format"
)

const (
	DefaultLabel      = "INBOX"
	DefaultMaxResults = 2
)

type mailbox interface {
	ListMessages(ctx context.Context, q string, labelIDs []string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
}

// RetrieverOptions scope the search.
type RetrieverOptions struct {
	LabelIDs   []string
	MaxResults int64
	Format     format.Options
}

// NewRetriever creates a Retriever. Zero options mean INBOX and two messages.
func NewRetriever(svc mailbox, opts RetrieverOptions) *Retriever {
	if opts.LabelIDs == nil {
		opts.LabelIDs = []string{DefaultLabel}
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}

	return &Retriever{
		svc:  svc,
		opts: opts,
	}
}

// Retriever lists messages matching a query and fetches each of them.
type Retriever struct {
	svc  mailbox
	opts RetrieverOptions
}

// Retrieve returns the matching messages in list order.
func (r *Retriever) Retrieve(ctx context.Context, q string) ([]format.Message, error) {
	list, err := r.svc.ListMessages(ctx, q, r.opts.LabelIDs, r.opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("svc.ListMessages failed: %w", err)
	}

	messages := make([]format.Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		msg, err := r.svc.GetMessage(ctx, m.Id)
		if err != nil {
			return nil, fmt.Errorf("get message %s failed: %w", m.Id, err)
		}

		messages = append(messages, format.NewMessage(msg, r.opts.Format))
	}

	return messages, nil
}
