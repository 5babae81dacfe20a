package search

import (
	"context"
	"strings"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

// MinSuggestionQuery is the minimum partial-query length before suggestions
// are computed. Below it the generator returns nothing without touching the
// store; this is a UX threshold, not a correctness one.
const MinSuggestionQuery = 2

// Suggestion source labels.
const (
	SourceLocation = "location"
	SourceCategory = "category"
	SourceKeyword  = "keyword"
)

// vocabulary is the static domain glossary unioned with live record values
// when generating suggestions.
var vocabulary = []string{
	"Short-term rental",
	"Occupancy tax",
	"Transient occupancy",
	"Zoning",
	"Permit",
	"Business license",
	"Registration",
	"Insurance",
	"Safety inspection",
	"Noise ordinance",
	"Parking",
	"Owner occupancy",
	"Guest limit",
	"HOA restrictions",
}

// Suggest proposes completions for a partial query: distinct locations and
// categories currently present among records, plus the static vocabulary.
// Output is grouped by source, discovery order within a group.
func (e *Engine) Suggest(ctx context.Context, partial string) ([]model.Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if len(partial) < MinSuggestionQuery {
		return []model.Suggestion{}, nil
	}
	needle := strings.ToLower(partial)

	locations, err := e.store.DistinctValues(ctx, store.FieldLocation)
	if err != nil {
		return nil, err
	}
	categories, err := e.store.DistinctValues(ctx, store.FieldCategory)
	if err != nil {
		return nil, err
	}

	out := []model.Suggestion{}
	out = appendMatches(out, locations, needle, SourceLocation)
	out = appendMatches(out, categories, needle, SourceCategory)
	out = appendMatches(out, vocabulary, needle, SourceKeyword)
	return out, nil
}

func appendMatches(out []model.Suggestion, candidates []string, needle, source string) []model.Suggestion {
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), needle) {
			out = append(out, model.Suggestion{Text: c, Category: source})
		}
	}
	return out
}
