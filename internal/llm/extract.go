package llm

import (
	"context"
	"fmt"

	"github.com/hal9000y/gmail-ask/internal/query"
)

const extractPrompt = `
You are an assistant that extracts email search filters from a natural language question.

Only return a valid JSON with the following keys:
{
  "from": "sender email or domain, e.g. linkedin.com or ali@gmail.com",
  "to": "receiver email, if specified, else null",
  "subject_keywords": ["list", "of", "important", "subject", "words"],
  "contains": ["list", "of", "keywords", "from", "email", "body"],
  "date_range": "today | yesterday | last_3_days | last_week | any"
}

Use null or empty list if a field is not specified in the query.
Do not explain anything. Only return the raw JSON.
`

// Extractor asks the model for a structured search filter.
type Extractor struct {
	llm completer
}

// NewExtractor creates an Extractor backed by llm.
func NewExtractor(llm completer) *Extractor {
	return &Extractor{llm: llm}
}

// Extract turns a natural-language question into a SearchFilter.
// A reply that is not JSON is an error; odd fields are tolerated.
func (e *Extractor) Extract(ctx context.Context, question string) (query.SearchFilter, error) {
	raw, err := e.llm.Complete(ctx, extractPrompt, question)
	if err != nil {
		return query.SearchFilter{}, fmt.Errorf("llm.Complete failed: %w", err)
	}

	f, err := query.Parse(raw)
	if err != nil {
		return query.SearchFilter{}, fmt.Errorf("query.Parse(%q) failed: %w", raw, err)
	}

	return f, nil
}
