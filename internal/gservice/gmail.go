// Package gservice adapts the Gmail API to the read operations the assistant needs.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

type tokenSource interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// NewGmail creates a Gmail adapter authorized by tok. Extra options are passed
// to gmail.NewService.
func NewGmail(tok tokenSource, opts ...option.ClientOption) *GMail {
	return &GMail{
		tok:  tok,
		opts: opts,
	}
}

// GMail issues read-only Gmail API calls for the authorized user.
type GMail struct {
	tok  tokenSource
	opts []option.ClientOption
}

// ListMessages returns one page of message ids matching q within labelIDs.
func (m *GMail) ListMessages(ctx context.Context, q string, labelIDs []string, maxResults int64) (*gmail.ListMessagesResponse, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	call := svc.Users.Messages.List(gmailUserID).
		Q(q).
		MaxResults(maxResults)
	if len(labelIDs) > 0 {
		call = call.LabelIds(labelIDs...)
	}

	result, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result, nil
}

// GetMessage fetches a message with headers and the full MIME tree.
func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, msgID).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	ts, err := m.tok.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("tok.TokenSource failed: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, m.opts...)

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
