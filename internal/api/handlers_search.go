package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/strcomply/strcomply/internal/api/respond"
	"github.com/strcomply/strcomply/internal/api/validate"
	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/search"
	"github.com/strcomply/strcomply/internal/services"
)

// SearchHandler is the HTTP transport for the search engine and the
// saved-search protocol.
type SearchHandler struct {
	engine *search.Engine
	saved  *services.SavedSearchService
}

func NewSearchHandler(engine *search.Engine, saved *services.SavedSearchService) *SearchHandler {
	return &SearchHandler{engine: engine, saved: saved}
}

// advancedSearchRequest is the POST /api/search/advanced body: filter
// criteria plus the record kind to search.
type advancedSearchRequest struct {
	search.CriteriaRequest
	Kind string `json:"kind"`
}

// HandleAdvancedSearch POST /api/search/advanced
func (h *SearchHandler) HandleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	var req advancedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	c := req.Normalize(time.Now())
	res, err := h.engine.Search(r.Context(), model.RecordKind(req.Kind), c)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"results":      res.Records(),
		"count":        res.Count,
		"matchedTerms": res.MatchedTerms,
	})
}

// HandleSuggestions GET /api/search/suggestions?q=
func (h *SearchHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions, err := h.engine.Suggest(r.Context(), q)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// createSavedSearchRequest carries criteria in transport form so dates can
// arrive as plain strings.
type createSavedSearchRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Criteria    search.CriteriaRequest `json:"criteria"`
	IsPublic    bool                   `json:"isPublic"`
}

// CreateSavedSearch POST /api/search/saved
func (h *SearchHandler) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	var req createSavedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := validate.Name(req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.saved.Save(r.Context(), &model.SavedSearch{
		Name:        req.Name,
		Description: req.Description,
		Criteria:    req.Criteria.Normalize(time.Now()),
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListSavedSearches GET /api/search/saved?public=true
func (h *SearchHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	publicOnly := r.URL.Query().Get("public") == "true"
	out, err := h.saved.List(r.Context(), publicOnly)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"savedSearches": out,
		"count":         len(out),
	})
}

// ApplySavedSearch POST /api/search/saved/{id}/apply
// The body is optional; when present it may select the record kind.
func (h *SearchHandler) ApplySavedSearch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.saved.Apply(r.Context(), id, model.RecordKind(req.Kind))
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"criteria": out.Criteria,
		"results":  out.Results.Records(),
		"count":    out.Results.Count,
	})
}

// DeleteSavedSearch DELETE /api/search/saved/{id}
func (h *SearchHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
