package app

import "strings"

// StripMarkup is the default text extractor: it drops tags and collapses
// whitespace. Hosts with richer markup should inject their own extractor.
func StripMarkup(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
			b.WriteByte(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
