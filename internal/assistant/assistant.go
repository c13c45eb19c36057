// Package assistant answers questions about a mailbox: it extracts a search
// filter, compiles it, retrieves matching mail and asks the model for an answer.
package assistant

import (
	"context"
	"fmt"
	"log"

	"github.com/hal9000y/gmail-ask/internal/format"
	"github.com/hal9000y/gmail-ask/internal/query"
)

type extractor interface {
	Extract(ctx context.Context, question string) (query.SearchFilter, error)
}

type retriever interface {
	Retrieve(ctx context.Context, q string) ([]format.Message, error)
}

type synthesizer interface {
	Answer(ctx context.Context, question, emailContext string) string
}

// Result carries every intermediate product of one question.
type Result struct {
	Filter   query.SearchFilter
	Query    string
	Messages []format.Message
	Answer   string
}

// New creates an Assistant from its three collaborators.
func New(ex extractor, ret retriever, syn synthesizer) *Assistant {
	return &Assistant{
		ex:  ex,
		ret: ret,
		syn: syn,
	}
}

// Assistant runs the question pipeline sequentially.
type Assistant struct {
	ex  extractor
	ret retriever
	syn synthesizer
}

// Ask answers question. Extraction and retrieval errors are returned; a failed
// synthesis is reported inside Result.Answer.
func (a *Assistant) Ask(ctx context.Context, question string) (Result, error) {
	filter, err := a.ex.Extract(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("ex.Extract failed: %w", err)
	}

	res := Result{
		Filter: filter,
		Query:  query.Compile(filter),
	}
	log.Printf("Searching mail with query %q", res.Query)

	res.Messages, err = a.ret.Retrieve(ctx, res.Query)
	if err != nil {
		return Result{}, fmt.Errorf("ret.Retrieve failed: %w", err)
	}
	log.Printf("Retrieved %d messages", len(res.Messages))

	res.Answer = a.syn.Answer(ctx, question, format.Flatten(res.Messages))

	return res, nil
}
