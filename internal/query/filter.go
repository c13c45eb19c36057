// Package query turns a structured email search filter into a Gmail search string.
package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DateRange is a coarse relative time window understood by the compiler.
type DateRange string

const (
	DateAny       DateRange = "any"
	DateToday     DateRange = "today"
	DateYesterday DateRange = "yesterday"
	DateLast3Days DateRange = "last_3_days"
	DateLastWeek  DateRange = "last_week"
)

// ParseDateRange maps a raw value to a known DateRange, falling back to DateAny.
func ParseDateRange(s string) DateRange {
	switch r := DateRange(strings.TrimSpace(s)); r {
	case DateToday, DateYesterday, DateLast3Days, DateLastWeek:
		return r
	default:
		return DateAny
	}
}

// SearchFilter describes what to look for in a mailbox. Zero values mean "no constraint".
type SearchFilter struct {
	From            string    `json:"from,omitempty" jsonschema:"sender email or domain"`
	To              string    `json:"to,omitempty" jsonschema:"recipient email"`
	SubjectKeywords []string  `json:"subject_keywords,omitempty" jsonschema:"words expected in the subject"`
	Contains        []string  `json:"contains,omitempty" jsonschema:"words expected in the body"`
	DateRange       DateRange `json:"date_range,omitempty" jsonschema:"one of today, yesterday, last_3_days, last_week, any"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f SearchFilter) IsEmpty() bool {
	return Compile(f) == ""
}

// UnmarshalJSON decodes a filter produced by an untrusted source.
// Fields that are missing, null or of an unexpected type are left empty.
func (f *SearchFilter) UnmarshalJSON(data []byte) error {
	*f = SearchFilter{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// valid JSON that isn't an object
		return nil
	}

	f.From = stringField(fields["from"])
	f.To = stringField(fields["to"])
	f.SubjectKeywords = listField(fields["subject_keywords"])
	f.Contains = listField(fields["contains"])

	if raw := stringField(fields["date_range"]); raw != "" {
		f.DateRange = ParseDateRange(raw)
	}

	return nil
}

// Parse decodes a raw JSON filter. Only syntactically invalid JSON is an error.
func Parse(raw string) (SearchFilter, error) {
	var f SearchFilter
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &f); err != nil {
		return SearchFilter{}, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	return f, nil
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return strings.TrimSpace(s)
}

func listField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringField(item); s != "" {
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
