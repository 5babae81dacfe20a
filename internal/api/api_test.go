package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
	"github.com/strcomply/strcomply/internal/store/sqlite"
)

// newTestServer spins up the full router over a throwaway sqlite store.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := sqlite.New(filepath.Join(t.TempDir(), "api-test.db"))
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(st))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedRegulation(t *testing.T, url string, title, location, category, level string, date string) string {
	t.Helper()
	resp := postJSON(t, url+"/api/regulations", map[string]interface{}{
		"title":             title,
		"jurisdictionLevel": model.JurisdictionLocal,
		"location":          location,
		"category":          category,
		"complianceLevel":   level,
		"requirements":      "File and remit on time.",
		"lastUpdated":       date,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out model.Regulation
	decodeBody(t, resp, &out)
	return out.ID
}

func TestAdvancedSearch_EndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)

	seedRegulation(t, srv.URL, "Federal STR Tax Reporting", "National", "Taxes", model.ComplianceMandatory, "2024-01-10T00:00:00Z")
	seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")
	seedRegulation(t, srv.URL, "Austin Permit Renewal", "Austin", "Permits", model.ComplianceRecommended, "2024-01-20T00:00:00Z")

	resp := postJSON(t, srv.URL+"/api/search/advanced", map[string]interface{}{
		"q":          "tax",
		"categories": []string{"Taxes"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success      bool               `json:"success"`
		Results      []model.Regulation `json:"results"`
		Count        int                `json:"count"`
		MatchedTerms []string           `json:"matchedTerms"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Federal STR Tax Reporting", body.Results[0].Title)
	assert.Equal(t, []string{"tax"}, body.MatchedTerms)
}

func TestAdvancedSearch_EmptyCriteriaReturnsAll(t *testing.T) {
	srv, _ := newTestServer(t)
	seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")
	seedRegulation(t, srv.URL, "Austin Permit Renewal", "Austin", "Permits", model.ComplianceOptional, "2024-01-20T00:00:00Z")

	resp := postJSON(t, srv.URL+"/api/search/advanced", map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []model.Regulation `json:"results"`
		Count   int                `json:"count"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, 2, body.Count)
	// Newest first.
	assert.Equal(t, "Tampa Zoning Code", body.Results[0].Title)
}

func TestAdvancedSearch_MalformedDateIsIgnored(t *testing.T) {
	srv, _ := newTestServer(t)
	seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")

	resp := postJSON(t, srv.URL+"/api/search/advanced", map[string]interface{}{
		"dateFrom": "not-a-date",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Count)
}

func TestSuggestions_Endpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")

	resp, err := http.Get(srv.URL + "/api/search/suggestions?q=zo")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Suggestions []model.Suggestion `json:"suggestions"`
		Count       int                `json:"count"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Zoning", body.Suggestions[0].Text)
	assert.Equal(t, "category", body.Suggestions[0].Category)
	assert.Equal(t, "keyword", body.Suggestions[1].Category)
}

func TestSuggestions_ShortQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/search/suggestions?q=z")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count int `json:"count"`
	}
	decodeBody(t, resp, &body)
	assert.Zero(t, body.Count)
}

func TestSavedSearch_SaveListApply(t *testing.T) {
	srv, _ := newTestServer(t)
	seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")
	seedRegulation(t, srv.URL, "Austin Permit Renewal", "Austin", "Permits", model.ComplianceOptional, "2024-01-20T00:00:00Z")

	// Save
	resp := postJSON(t, srv.URL+"/api/search/saved", map[string]interface{}{
		"name":        "Tampa watch",
		"description": "everything Tampa",
		"criteria":    map[string]interface{}{"locations": []string{"Tampa"}},
		"isPublic":    true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved model.SavedSearch
	decodeBody(t, resp, &saved)
	require.NotEmpty(t, saved.ID)
	assert.Nil(t, saved.LastUsedAt)

	// List
	listResp, err := http.Get(srv.URL + "/api/search/saved?public=true")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		SavedSearches []model.SavedSearch `json:"savedSearches"`
		Count         int                 `json:"count"`
	}
	decodeBody(t, listResp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Tampa watch", list.SavedSearches[0].Name)

	// Apply
	applyResp := postJSON(t, srv.URL+"/api/search/saved/"+saved.ID+"/apply", map[string]interface{}{})
	require.Equal(t, http.StatusOK, applyResp.StatusCode)
	var applied struct {
		Criteria model.FilterCriteria `json:"criteria"`
		Results  []model.Regulation   `json:"results"`
		Count    int                  `json:"count"`
	}
	decodeBody(t, applyResp, &applied)
	assert.Equal(t, []string{"Tampa"}, applied.Criteria.Locations)
	require.Equal(t, 1, applied.Count)
	assert.Equal(t, "Tampa Zoning Code", applied.Results[0].Title)

	// Apply recorded the use.
	getResp, err := http.Get(srv.URL + "/api/search/saved?public=true")
	require.NoError(t, err)
	decodeBody(t, getResp, &list)
	require.NotNil(t, list.SavedSearches[0].LastUsedAt)
}

func TestSavedSearch_ValidationAndMissing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/search/saved", map[string]interface{}{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	applyResp := postJSON(t, srv.URL+"/api/search/saved/no-such-id/apply", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, applyResp.StatusCode)
	_ = applyResp.Body.Close()
}

func TestRegulationCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	id := seedRegulation(t, srv.URL, "Tampa Zoning Code", "Tampa", "Zoning", model.ComplianceMandatory, "2024-02-01T00:00:00Z")

	// Get
	resp, err := http.Get(srv.URL + "/api/regulations/" + id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reg model.Regulation
	decodeBody(t, resp, &reg)
	assert.Equal(t, "Tampa Zoning Code", reg.Title)

	// Update
	reg.ComplianceLevel = model.ComplianceRecommended
	buf, _ := json.Marshal(reg)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/regulations/"+id, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)
	decodeBody(t, putResp, &reg)
	assert.Equal(t, model.ComplianceRecommended, reg.ComplianceLevel)

	// Delete
	delReq, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/regulations/"+id, nil)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	// Gone
	goneResp, err := http.Get(srv.URL + "/api/regulations/" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
	_ = goneResp.Body.Close()
}

func TestRegulation_InvalidLevelRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/regulations", map[string]interface{}{
		"title":             "X",
		"jurisdictionLevel": model.JurisdictionLocal,
		"location":          "Tampa",
		"complianceLevel":   "Critical",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUpdateCRUDAndSearch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/updates", map[string]interface{}{
		"title":             "Tampa raises occupancy tax",
		"jurisdictionLevel": model.JurisdictionLocal,
		"location":          "Tampa",
		"category":          "Taxes",
		"impactLevel":       model.ImpactHigh,
		"description":       "Rate changes from 5% to 6% next quarter.",
		"updateDate":        "2024-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var upd model.Update
	decodeBody(t, resp, &upd)

	searchResp := postJSON(t, srv.URL+"/api/search/advanced", map[string]interface{}{
		"kind":             "update",
		"complianceLevels": []string{model.ImpactHigh},
	})
	require.Equal(t, http.StatusOK, searchResp.StatusCode)
	var body struct {
		Results []model.Update `json:"results"`
		Count   int            `json:"count"`
	}
	decodeBody(t, searchResp, &body)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, upd.ID, body.Results[0].ID)
}

func TestPreferences_PutAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	buf, _ := json.Marshal(map[string]interface{}{
		"email":      "Host@Example.com",
		"locations":  []string{"Tampa"},
		"categories": []string{"Taxes"},
		"frequency":  "daily",
	})
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/notifications/preferences", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pref model.NotificationPreference
	decodeBody(t, resp, &pref)
	assert.Equal(t, "host@example.com", pref.Email)

	getResp, err := http.Get(srv.URL + "/api/notifications/preferences/host@example.com")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	decodeBody(t, getResp, &pref)
	assert.Equal(t, "daily", pref.Frequency)
	assert.Equal(t, []string{"Tampa"}, pref.Locations)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	BindServiceHealth(func() bool { return true })
	t.Cleanup(func() { BindServiceHealth(func() bool { return false }) })

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
}

func TestSearch_UnknownKindRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/search/advanced", map[string]interface{}{"kind": "invoice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Message, "unknown record kind")
}
