package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func seedRegulations(t *testing.T, s store.Store) []*model.Regulation {
	t.Helper()
	ctx := context.Background()
	seed := []*model.Regulation{
		{
			Title:             "Federal STR Tax Reporting",
			JurisdictionLevel: model.JurisdictionNational,
			Location:          "National",
			Category:          "Taxes",
			ComplianceLevel:   model.ComplianceMandatory,
			Requirements:      "Hosts must report rental income on federal returns.",
			LastUpdated:       day(2024, 1, 10),
		},
		{
			Title:             "Tampa Zoning Code",
			JurisdictionLevel: model.JurisdictionLocal,
			Location:          "Tampa",
			Category:          "Zoning",
			ComplianceLevel:   model.ComplianceMandatory,
			Requirements:      "Short-term rentals only permitted in designated districts.",
			LastUpdated:       day(2024, 2, 1),
		},
		{
			Title:             "Austin Permit Renewal",
			JurisdictionLevel: model.JurisdictionLocal,
			Location:          "Austin",
			Category:          "Permits",
			ComplianceLevel:   model.ComplianceRecommended,
			Requirements:      "Annual permit renewal recommended before expiry.",
			LastUpdated:       day(2024, 1, 20),
		},
	}
	out := make([]*model.Regulation, 0, len(seed))
	for _, r := range seed {
		created, err := s.Regulations().Create(ctx, r)
		if err != nil {
			t.Fatalf("seed regulation %q: %v", r.Title, err)
		}
		out = append(out, created)
	}
	return out
}

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	regs := seedRegulations(t, s)

	// Empty criteria returns everything, newest first.
	all, err := s.Regulations().Search(ctx, model.FilterCriteria{})
	if err != nil || len(all) != 3 {
		t.Fatalf("Search empty criteria: n=%d err=%v", len(all), err)
	}
	if all[0].Title != "Tampa Zoning Code" || all[2].Title != "Federal STR Tax Reporting" {
		t.Fatalf("default order wrong: %q .. %q", all[0].Title, all[2].Title)
	}

	// Text query is a case-insensitive substring match.
	for _, q := range []string{"tax", "TAX"} {
		got, err := s.Regulations().Search(ctx, model.FilterCriteria{Query: q})
		if err != nil || len(got) != 1 || got[0].Title != "Federal STR Tax Reporting" {
			t.Fatalf("Search q=%q: n=%d err=%v", q, len(got), err)
		}
	}

	// OR within a dimension, AND across dimensions.
	got, err := s.Regulations().Search(ctx, model.FilterCriteria{Categories: []string{"Zoning", "Permits"}})
	if err != nil || len(got) != 2 {
		t.Fatalf("Search categories OR: n=%d err=%v", len(got), err)
	}
	got, err = s.Regulations().Search(ctx, model.FilterCriteria{
		Categories: []string{"Zoning"},
		Locations:  []string{"Tampa"},
	})
	if err != nil || len(got) != 1 || got[0].Title != "Tampa Zoning Code" {
		t.Fatalf("Search AND across dimensions: n=%d err=%v", len(got), err)
	}

	// Inclusive date lower bound.
	from := day(2024, 1, 15)
	got, err = s.Regulations().Search(ctx, model.FilterCriteria{DateFrom: &from})
	if err != nil || len(got) != 2 {
		t.Fatalf("Search dateFrom: n=%d err=%v", len(got), err)
	}
	exactly := regs[1].LastUpdated
	got, err = s.Regulations().Search(ctx, model.FilterCriteria{DateFrom: &exactly, DateTo: &exactly})
	if err != nil || len(got) != 1 {
		t.Fatalf("Search inclusive bounds: n=%d err=%v", len(got), err)
	}

	// Unknown filter values yield empty, not an error.
	got, err = s.Regulations().Search(ctx, model.FilterCriteria{Locations: []string{"Atlantis"}})
	if err != nil || len(got) != 0 {
		t.Fatalf("Search unknown location: n=%d err=%v", len(got), err)
	}

	// Regulation CRUD round trip.
	reg := regs[2]
	fetched, err := s.Regulations().GetByID(ctx, reg.ID)
	if err != nil || fetched.Title != reg.Title {
		t.Fatalf("GetByID: got=%v err=%v", fetched, err)
	}
	fetched.ComplianceLevel = model.ComplianceMandatory
	if _, err := s.Regulations().Update(ctx, fetched); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := s.Regulations().GetByID(ctx, "4f2b1a1e-0000-0000-0000-000000000000"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID missing: err=%v", err)
	}

	// Updates share the composer with their own vocabulary.
	upd, err := s.Updates().Create(ctx, &model.Update{
		Title:             "Tampa Registration Deadline Extended",
		JurisdictionLevel: model.JurisdictionLocal,
		Location:          "Tampa",
		Category:          "Permits",
		ImpactLevel:       model.ImpactHigh,
		Description:       "City extends the STR registration deadline to May.",
		UpdateDate:        day(2024, 3, 5),
	})
	if err != nil {
		t.Fatalf("CreateUpdate: %v", err)
	}
	gotU, err := s.Updates().Search(ctx, model.FilterCriteria{ComplianceLevels: []string{model.ImpactHigh}})
	if err != nil || len(gotU) != 1 || gotU[0].ID != upd.ID {
		t.Fatalf("Search updates by impact: n=%d err=%v", len(gotU), err)
	}
	gotU, err = s.Updates().Search(ctx, model.FilterCriteria{Query: "registration"})
	if err != nil || len(gotU) != 1 {
		t.Fatalf("Search updates by text: n=%d err=%v", len(gotU), err)
	}

	// Distinct values span both record kinds.
	locs, err := s.DistinctValues(ctx, store.FieldLocation)
	if err != nil {
		t.Fatalf("DistinctValues location: %v", err)
	}
	found := map[string]bool{}
	for _, v := range locs {
		found[v] = true
	}
	if !found["Tampa"] || !found["Austin"] || !found["National"] {
		t.Fatalf("DistinctValues missing expected locations: %v", locs)
	}
	if _, err := s.DistinctValues(ctx, "requirements"); err == nil {
		t.Fatalf("DistinctValues should reject non-categorical fields")
	}

	// Saved searches: snapshot round trip, list order, touch protocol.
	ss, err := s.SavedSearches().Create(ctx, &model.SavedSearch{
		Name:     "Tampa watch",
		Criteria: model.FilterCriteria{Locations: []string{"Tampa"}},
		IsPublic: true,
	})
	if err != nil || ss.ID == "" || ss.LastUsedAt != nil {
		t.Fatalf("CreateSavedSearch: got=%v err=%v", ss, err)
	}
	older, err := s.SavedSearches().Create(ctx, &model.SavedSearch{
		Name:      "Private permits",
		Criteria:  model.FilterCriteria{Categories: []string{"Permits"}},
		IsPublic:  false,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSavedSearch private: %v", err)
	}

	round, err := s.SavedSearches().GetByID(ctx, ss.ID)
	if err != nil {
		t.Fatalf("GetSavedSearch: %v", err)
	}
	if len(round.Criteria.Locations) != 1 || round.Criteria.Locations[0] != "Tampa" {
		t.Fatalf("criteria snapshot not reconstructed: %+v", round.Criteria)
	}

	pub, err := s.SavedSearches().List(ctx, true)
	if err != nil || len(pub) != 1 || pub[0].ID != ss.ID {
		t.Fatalf("List publicOnly: n=%d err=%v", len(pub), err)
	}
	both, err := s.SavedSearches().List(ctx, false)
	if err != nil || len(both) != 2 {
		t.Fatalf("List all: n=%d err=%v", len(both), err)
	}
	// Never-used entries order by creation time descending.
	if both[0].ID != ss.ID {
		t.Fatalf("never-used order: got %q first", both[0].Name)
	}

	// Touching the older entry promotes it to the front.
	usedAt := time.Now().UTC()
	if err := s.SavedSearches().TouchLastUsed(ctx, older.ID, usedAt); err != nil {
		t.Fatalf("TouchLastUsed: %v", err)
	}
	both, err = s.SavedSearches().List(ctx, false)
	if err != nil || both[0].ID != older.ID {
		t.Fatalf("used entry should list first: err=%v", err)
	}
	if both[0].LastUsedAt == nil || both[0].LastUsedAt.Before(usedAt.Add(-time.Second)) {
		t.Fatalf("last used not persisted: %v", both[0].LastUsedAt)
	}
	if err := s.SavedSearches().TouchLastUsed(ctx, "4f2b1a1e-0000-0000-0000-000000000001", usedAt); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("TouchLastUsed missing: err=%v", err)
	}

	// Preferences upsert twice, second write wins.
	pref, err := s.Preferences().Upsert(ctx, &model.NotificationPreference{
		Email:      "host@example.test",
		Locations:  []string{"Tampa"},
		Categories: []string{"Taxes"},
		Frequency:  model.FrequencyDaily,
	})
	if err != nil || pref.Frequency != model.FrequencyDaily {
		t.Fatalf("Upsert preference: got=%v err=%v", pref, err)
	}
	pref, err = s.Preferences().Upsert(ctx, &model.NotificationPreference{
		Email:     "host@example.test",
		Locations: []string{"Tampa", "Austin"},
		Frequency: model.FrequencyWeekly,
	})
	if err != nil || pref.Frequency != model.FrequencyWeekly || len(pref.Locations) != 2 {
		t.Fatalf("Upsert preference overwrite: got=%v err=%v", pref, err)
	}
	if _, err := s.Preferences().GetByEmail(ctx, "nobody@example.test"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByEmail missing: err=%v", err)
	}

	// Deletes.
	if err := s.Updates().Delete(ctx, upd.ID); err != nil {
		t.Fatalf("DeleteUpdate: %v", err)
	}
	if err := s.SavedSearches().Delete(ctx, older.ID); err != nil {
		t.Fatalf("DeleteSavedSearch: %v", err)
	}
	if err := s.Regulations().Delete(ctx, regs[0].ID); err != nil {
		t.Fatalf("DeleteRegulation: %v", err)
	}
	if err := s.Regulations().Delete(ctx, regs[0].ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteRegulation twice: err=%v", err)
	}
}
