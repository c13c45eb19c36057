package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-ask/internal/assistant"
	"github.com/hal9000y/gmail-ask/internal/format"
	"github.com/hal9000y/gmail-ask/internal/query"
)

func TestAsk(t *testing.T) {
	var steps []string

	ex := &extractorMock{ExtractFunc: func(_ context.Context, question string) (query.SearchFilter, error) {
		steps = append(steps, "extract:"+question)
		return query.SearchFilter{From: "linkedin.com", DateRange: query.DateToday}, nil
	}}
	ret := &retrieverMock{RetrieveFunc: func(_ context.Context, q string) ([]format.Message, error) {
		steps = append(steps, "retrieve:"+q)
		return []format.Message{{To: "me", From: "jobs@linkedin.com", Subject: "New jobs", Body: "3 new jobs"}}, nil
	}}
	syn := &synthesizerMock{AnswerFunc: func(_ context.Context, question, emailContext string) string {
		steps = append(steps, "answer:"+question+"|"+emailContext)
		return "LinkedIn emailed you."
	}}

	res, err := assistant.New(ex, ret, syn).Ask(context.Background(), "who emailed me today?")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"extract:who emailed me today?",
		"retrieve:from:linkedin.com newer_than:1d",
		"answer:who emailed me today?|To: me\nFrom: jobs@linkedin.com\nSubject: New jobs\nBody: 3 new jobs\n---\n",
	}, steps)
	assert.Equal(t, "from:linkedin.com newer_than:1d", res.Query)
	assert.Equal(t, "LinkedIn emailed you.", res.Answer)
	assert.Len(t, res.Messages, 1)
	assert.Equal(t, query.DateToday, res.Filter.DateRange)
}

func TestAskPropagatesErrors(t *testing.T) {
	extractErr := errors.New("not json")
	retrieveErr := errors.New("quota exceeded")

	okExtract := &extractorMock{ExtractFunc: func(context.Context, string) (query.SearchFilter, error) {
		return query.SearchFilter{}, nil
	}}
	okRetrieve := &retrieverMock{RetrieveFunc: func(context.Context, string) ([]format.Message, error) {
		return nil, nil
	}}
	neverAnswer := &synthesizerMock{AnswerFunc: func(context.Context, string, string) string {
		t.Fatal("synthesizer must not be called")
		return ""
	}}

	cases := []struct {
		name        string
		ex          *extractorMock
		ret         *retrieverMock
		expectedErr error
	}{
		{
			name: "extraction",
			ex: &extractorMock{ExtractFunc: func(context.Context, string) (query.SearchFilter, error) {
				return query.SearchFilter{}, extractErr
			}},
			ret:         okRetrieve,
			expectedErr: extractErr,
		},
		{
			name: "retrieval",
			ex:   okExtract,
			ret: &retrieverMock{RetrieveFunc: func(context.Context, string) ([]format.Message, error) {
				return nil, retrieveErr
			}},
			expectedErr: retrieveErr,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := assistant.New(tc.ex, tc.ret, neverAnswer).Ask(context.Background(), "q")
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestAskEmptyFilterSearchesEverything(t *testing.T) {
	var searched []string

	a := assistant.New(
		&extractorMock{ExtractFunc: func(context.Context, string) (query.SearchFilter, error) {
			return query.SearchFilter{DateRange: query.DateAny}, nil
		}},
		&retrieverMock{RetrieveFunc: func(_ context.Context, q string) ([]format.Message, error) {
			searched = append(searched, q)
			return nil, nil
		}},
		&synthesizerMock{AnswerFunc: func(_ context.Context, _, emailContext string) string {
			return "context=" + emailContext
		}},
	)

	res, err := a.Ask(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, searched)
	assert.Equal(t, "context=", res.Answer)
}
