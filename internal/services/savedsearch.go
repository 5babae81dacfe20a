package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/search"
	"github.com/strcomply/strcomply/internal/store"
)

// SavedSearchService orchestrates the save/list/apply lifecycle of named
// filter snapshots.
type SavedSearchService struct {
	store  store.Store
	engine *search.Engine
}

func NewSavedSearchService(s store.Store, eng *search.Engine) *SavedSearchService {
	return &SavedSearchService{store: s, engine: eng}
}

// Save persists a named criteria snapshot. The snapshot is stored as-is;
// it is never re-normalized or re-resolved on later reads.
func (s *SavedSearchService) Save(ctx context.Context, ss *model.SavedSearch) (*model.SavedSearch, error) {
	ss.Name = strings.TrimSpace(ss.Name)
	if ss.Name == "" {
		return nil, fmt.Errorf("%w: saved search name is required", model.ErrValidation)
	}
	if ss.ID == "" {
		ss.ID = uuid.NewString()
	}
	return s.store.SavedSearches().Create(ctx, ss)
}

func (s *SavedSearchService) Get(ctx context.Context, id string) (*model.SavedSearch, error) {
	return s.store.SavedSearches().GetByID(ctx, id)
}

// List returns saved searches, most recently used first. publicOnly
// restricts the listing to shared entries.
func (s *SavedSearchService) List(ctx context.Context, publicOnly bool) ([]*model.SavedSearch, error) {
	out, err := s.store.SavedSearches().List(ctx, publicOnly)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*model.SavedSearch{}
	}
	return out, nil
}

func (s *SavedSearchService) Delete(ctx context.Context, id string) error {
	return s.store.SavedSearches().Delete(ctx, id)
}

// ApplyResult carries everything an apply returns: the stored snapshot's
// criteria echoed back, plus the live results of executing them.
type ApplyResult struct {
	Criteria model.FilterCriteria `json:"criteria"`
	Results  *search.Results      `json:"results"`
}

// Apply loads a saved search, records the use and executes the stored
// criteria against the requested record kind. The usage touch is
// best-effort: a failed touch is logged, never surfaced, because apply is a
// read operation from the caller's point of view.
func (s *SavedSearchService) Apply(ctx context.Context, id string, kind model.RecordKind) (*ApplyResult, error) {
	ss, err := s.store.SavedSearches().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SavedSearches().TouchLastUsed(ctx, id, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Str("savedSearchId", id).Msg("failed to record saved-search use")
	}
	res, err := s.engine.Search(ctx, kind, ss.Criteria)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Criteria: ss.Criteria, Results: res}, nil
}
