// Package format flattens Gmail messages into the plain-text context handed to the model.
package format

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
)

const (
	mimePlain = "text/plain"
	mimeHTML  = "text/html"
)

// Message is the flattened view of one retrieved email.
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Options controls body extraction.
type Options struct {
	// HTMLFallback converts the first top-level text/html part to text when no
	// text/plain part exists.
	HTMLFallback bool
}

// NewMessage builds a Message from a message fetched with format=full.
func NewMessage(msg *gmail.Message, opts Options) Message {
	var m Message
	if msg == nil || msg.Payload == nil {
		return m
	}

	m.To = header(msg.Payload.Headers, "To")
	m.From = header(msg.Payload.Headers, "From")
	m.Subject = header(msg.Payload.Headers, "Subject")

	m.Body = PlainBody(msg.Payload)
	if m.Body == "" && opts.HTMLFallback {
		if raw := HTMLBody(msg.Payload); raw != "" {
			m.Body = HTMLToText([]byte(raw))
		}
	}

	return m
}

// String renders the message as a context entry.
func (m Message) String() string {
	return fmt.Sprintf("To: %s\nFrom: %s\nSubject: %s\nBody: %s\n---\n", m.To, m.From, m.Subject, m.Body)
}

// Flatten concatenates messages into one context block, in order.
func Flatten(msgs []Message) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m.String())
	}
	return b.String()
}

// PlainBody returns the decoded first text/plain part among the direct children
// of a multipart payload. Nested multiparts and single-part payloads yield "".
func PlainBody(payload *gmail.MessagePart) string {
	return firstPart(payload, mimePlain)
}

// HTMLBody is PlainBody for text/html parts. The markup is returned as is.
func HTMLBody(payload *gmail.MessagePart) string {
	return firstPart(payload, mimeHTML)
}

func firstPart(payload *gmail.MessagePart, mimeType string) string {
	if payload == nil {
		return ""
	}

	for _, part := range payload.Parts {
		if part == nil || part.MimeType != mimeType {
			continue
		}
		if part.Body == nil {
			return ""
		}
		return decodeBase64URL(part.Body.Data)
	}

	return ""
}

func header(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && h.Name == name {
			return h.Value
		}
	}
	return ""
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}
	return string(decoded)
}
