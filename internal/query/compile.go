package query

import "strings"

var dateClauses = map[DateRange]string{
	DateToday:     "newer_than:1d",
	DateYesterday: "newer_than:2d older_than:1d",
	DateLast3Days: "newer_than:3d",
	DateLastWeek:  "newer_than:7d",
}

// Compile builds a Gmail search string from f.
// Clause order: sender, recipient, subject keywords, body keywords, date range.
// Values are trimmed of surrounding whitespace and blank values add no clause.
func Compile(f SearchFilter) string {
	parts := make([]string, 0, 3+len(f.SubjectKeywords)+len(f.Contains))

	if from := strings.TrimSpace(f.From); from != "" {
		parts = append(parts, "from:"+from)
	}
	if to := strings.TrimSpace(f.To); to != "" {
		parts = append(parts, "to:"+to)
	}

	for _, word := range f.SubjectKeywords {
		if word = strings.TrimSpace(word); word != "" {
			parts = append(parts, "subject:"+word)
		}
	}
	for _, word := range f.Contains {
		if word = strings.TrimSpace(word); word != "" {
			parts = append(parts, word)
		}
	}

	if clause, ok := dateClauses[f.DateRange]; ok {
		parts = append(parts, clause)
	}

	return strings.Join(parts, " ")
}
