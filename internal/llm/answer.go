package llm

import (
	"context"
	"log"
)

const answerPrompt = "You are an email assistant. Use only the following email data to answer the user's question. " +
	"Do NOT say you don't have access. Do NOT simulate. Just answer using the context provided."

// ErrorPrefix starts the answer returned when synthesis fails.
const ErrorPrefix = "Error Occured: "

// Synthesizer answers a question from flattened mail context.
type Synthesizer struct {
	llm completer
}

// NewSynthesizer creates a Synthesizer backed by llm.
func NewSynthesizer(llm completer) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// Answer never fails: a model error comes back as ErrorPrefix followed by the error text.
func (s *Synthesizer) Answer(ctx context.Context, question, emailContext string) string {
	answer, err := s.llm.Complete(ctx, answerPrompt, question+"\n\n"+emailContext)
	if err != nil {
		log.Println("llm.Complete failed", err)
		return ErrorPrefix + err.Error()
	}

	return answer
}
