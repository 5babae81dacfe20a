package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

// fakeStore records the criteria it receives and serves canned data.
type fakeStore struct {
	regs       []*model.Regulation
	upds       []*model.Update
	locations  []string
	categories []string
	err        error

	lastCriteria  model.FilterCriteria
	distinctCalls int
}

func (f *fakeStore) Regulations() store.Regulations     { return &fakeRegulations{f} }
func (f *fakeStore) Updates() store.Updates             { return &fakeUpdates{f} }
func (f *fakeStore) SavedSearches() store.SavedSearches { return nil }
func (f *fakeStore) Preferences() store.Preferences     { return nil }

func (f *fakeStore) DistinctValues(ctx context.Context, field string) ([]string, error) {
	f.distinctCalls++
	if f.err != nil {
		return nil, f.err
	}
	switch field {
	case store.FieldLocation:
		return f.locations, nil
	case store.FieldCategory:
		return f.categories, nil
	}
	return nil, errors.New("unsupported field")
}

type fakeRegulations struct{ f *fakeStore }

func (r *fakeRegulations) Create(context.Context, *model.Regulation) (*model.Regulation, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeRegulations) GetByID(context.Context, string) (*model.Regulation, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeRegulations) Update(context.Context, *model.Regulation) (*model.Regulation, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeRegulations) Delete(context.Context, string) error { return errors.New("not implemented") }
func (r *fakeRegulations) Search(_ context.Context, c model.FilterCriteria) ([]*model.Regulation, error) {
	r.f.lastCriteria = c
	return r.f.regs, r.f.err
}

type fakeUpdates struct{ f *fakeStore }

func (u *fakeUpdates) Create(context.Context, *model.Update) (*model.Update, error) {
	return nil, errors.New("not implemented")
}
func (u *fakeUpdates) GetByID(context.Context, string) (*model.Update, error) {
	return nil, errors.New("not implemented")
}
func (u *fakeUpdates) Update(context.Context, *model.Update) (*model.Update, error) {
	return nil, errors.New("not implemented")
}
func (u *fakeUpdates) Delete(context.Context, string) error { return errors.New("not implemented") }
func (u *fakeUpdates) Search(_ context.Context, c model.FilterCriteria) ([]*model.Update, error) {
	u.f.lastCriteria = c
	return u.f.upds, u.f.err
}

func TestEngineSearch_DefaultsToRegulations(t *testing.T) {
	f := &fakeStore{regs: []*model.Regulation{{ID: "r1", Title: "Tampa Zoning Code"}}}
	eng := New(f)

	res, err := eng.Search(context.Background(), "", model.FilterCriteria{Query: "zoning code"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Len(t, res.Regulations, 1)
	assert.Nil(t, res.Updates)
	assert.Equal(t, []string{"zoning", "code"}, res.MatchedTerms)
	assert.Equal(t, "zoning code", f.lastCriteria.Query)
}

func TestEngineSearch_UpdatesKind(t *testing.T) {
	f := &fakeStore{upds: []*model.Update{{ID: "u1"}, {ID: "u2"}}}
	eng := New(f)

	res, err := eng.Search(context.Background(), model.KindUpdate, model.FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.Updates, 2)
	assert.Equal(t, res.Updates, res.Records())
}

func TestEngineSearch_EmptyResultIsNotAnError(t *testing.T) {
	eng := New(&fakeStore{})

	res, err := eng.Search(context.Background(), model.KindRegulation, model.FilterCriteria{Locations: []string{"Atlantis"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Regulations)
}

func TestEngineSearch_UnknownKind(t *testing.T) {
	eng := New(&fakeStore{})

	_, err := eng.Search(context.Background(), "invoice", model.FilterCriteria{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestEngineSearch_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("store unavailable")
	eng := New(&fakeStore{err: boom})

	_, err := eng.Search(context.Background(), model.KindRegulation, model.FilterCriteria{})
	assert.ErrorIs(t, err, boom)
}

func TestEngineSearch_CriteriaPassedThrough(t *testing.T) {
	f := &fakeStore{}
	eng := New(f)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := eng.Search(context.Background(), model.KindRegulation, model.FilterCriteria{
		Categories: []string{"Zoning"},
		DateFrom:   &from,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Zoning"}, f.lastCriteria.Categories)
	require.NotNil(t, f.lastCriteria.DateFrom)
	assert.True(t, f.lastCriteria.DateFrom.Equal(from))
}
