package search

import (
	"context"
	"fmt"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

// Engine composes filter requests into record-store queries and prepares the
// results for presentation. It never mutates records; the only write it ever
// issues is the saved-search usage timestamp, and that lives in the
// services layer.
type Engine struct {
	store store.Store
}

// New constructs an Engine with an explicit store dependency.
func New(st store.Store) *Engine {
	return &Engine{store: st}
}

// Results is the engine's answer to a search: the ordered matches for the
// requested record kind, their count and the query tokens the presentation
// layer may highlight.
type Results struct {
	Regulations  []*model.Regulation `json:"regulations,omitempty"`
	Updates      []*model.Update     `json:"updates,omitempty"`
	Count        int                 `json:"count"`
	MatchedTerms []string            `json:"matchedTerms,omitempty"`
}

// Records returns whichever result slice is populated, for serialization.
func (r *Results) Records() interface{} {
	if r.Updates != nil {
		return r.Updates
	}
	return r.Regulations
}

// Search executes the criteria against the selected record kind. Empty
// criteria return the full record set in default order; empty result sets
// are a successful answer, never an error. Store failures propagate to the
// caller untouched.
func (e *Engine) Search(ctx context.Context, kind model.RecordKind, c model.FilterCriteria) (*Results, error) {
	res := &Results{MatchedTerms: MatchedTerms(c.Query)}
	switch kind {
	case model.KindUpdate:
		matches, err := e.store.Updates().Search(ctx, c)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			matches = []*model.Update{}
		}
		res.Updates = matches
		res.Count = len(matches)
	case model.KindRegulation, "":
		matches, err := e.store.Regulations().Search(ctx, c)
		if err != nil {
			return nil, err
		}
		if matches == nil {
			matches = []*model.Regulation{}
		}
		res.Regulations = matches
		res.Count = len(matches)
	default:
		return nil, fmt.Errorf("%w: unknown record kind %q", model.ErrValidation, kind)
	}
	return res, nil
}
