package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/strcomply/strcomply/internal/api/respond"
	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/search"
	"github.com/strcomply/strcomply/internal/services"
)

// RecordHandler is the HTTP transport for regulation and update CRUD.
// Listing delegates to the engine with empty criteria so list and search
// share one ordering.
type RecordHandler struct {
	svc    *services.RecordService
	engine *search.Engine
}

func NewRecordHandler(svc *services.RecordService, engine *search.Engine) *RecordHandler {
	return &RecordHandler{svc: svc, engine: engine}
}

// CreateRegulation POST /api/regulations
func (h *RecordHandler) CreateRegulation(w http.ResponseWriter, r *http.Request) {
	var reg model.Regulation
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateRegulation(r.Context(), &reg)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListRegulations GET /api/regulations
func (h *RecordHandler) ListRegulations(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Search(r.Context(), model.KindRegulation, model.FilterCriteria{})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"regulations": res.Regulations,
		"count":       res.Count,
	})
}

// GetRegulation GET /api/regulations/{id}
func (h *RecordHandler) GetRegulation(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetRegulation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateRegulation PUT /api/regulations/{id}
func (h *RecordHandler) UpdateRegulation(w http.ResponseWriter, r *http.Request) {
	var reg model.Regulation
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	reg.ID = mux.Vars(r)["id"]
	out, err := h.svc.UpdateRegulation(r.Context(), &reg)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteRegulation DELETE /api/regulations/{id}
func (h *RecordHandler) DeleteRegulation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRegulation(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUpdate POST /api/updates
func (h *RecordHandler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	out, err := h.svc.CreateUpdate(r.Context(), &upd)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListUpdates GET /api/updates
func (h *RecordHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.Search(r.Context(), model.KindUpdate, model.FilterCriteria{})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"updates": res.Updates,
		"count":   res.Count,
	})
}

// GetUpdate GET /api/updates/{id}
func (h *RecordHandler) GetUpdate(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetUpdate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateUpdate PUT /api/updates/{id}
func (h *RecordHandler) UpdateUpdate(w http.ResponseWriter, r *http.Request) {
	var upd model.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	upd.ID = mux.Vars(r)["id"]
	out, err := h.svc.UpdateUpdate(r.Context(), &upd)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteUpdate DELETE /api/updates/{id}
func (h *RecordHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUpdate(r.Context(), mux.Vars(r)["id"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
