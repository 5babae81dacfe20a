package search

import "strings"

// minTermLen filters out short stop-ish tokens from highlighting.
const minTermLen = 3

// MatchedTerms returns the whitespace-delimited tokens of the query that are
// long enough to highlight, lowercased and deduplicated in first-occurrence
// order. The presentation layer wraps these for visual highlighting; no text
// mutation happens here.
func MatchedTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, tok := range fields {
		if len(tok) < minTermLen {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
