package assistant_test

import (
	"context"

	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-ask/internal/format"
	"github.com/hal9000y/gmail-ask/internal/query"
)

type gmailSvcMock struct {
	ListMessagesFunc func(ctx context.Context, q string, labelIDs []string, maxResults int64) (*gmail.ListMessagesResponse, error)
	GetMessageFunc   func(ctx context.Context, msgID string) (*gmail.Message, error)
}

func (m *gmailSvcMock) ListMessages(ctx context.Context, q string, labelIDs []string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	return m.ListMessagesFunc(ctx, q, labelIDs, maxResults)
}

func (m *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	return m.GetMessageFunc(ctx, msgID)
}

type extractorMock struct {
	ExtractFunc func(ctx context.Context, question string) (query.SearchFilter, error)
}

func (m *extractorMock) Extract(ctx context.Context, question string) (query.SearchFilter, error) {
	return m.ExtractFunc(ctx, question)
}

type retrieverMock struct {
	RetrieveFunc func(ctx context.Context, q string) ([]format.Message, error)
}

func (m *retrieverMock) Retrieve(ctx context.Context, q string) ([]format.Message, error) {
	return m.RetrieveFunc(ctx, q)
}

type synthesizerMock struct {
	AnswerFunc func(ctx context.Context, question, emailContext string) string
}

func (m *synthesizerMock) Answer(ctx context.Context, question, emailContext string) string {
	return m.AnswerFunc(ctx, question, emailContext)
}
