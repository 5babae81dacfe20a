package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/strcomply/strcomply/internal/api/respond"
	"github.com/strcomply/strcomply/internal/api/validate"
	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/services"
)

// PreferenceHandler is the HTTP transport for notification preferences.
type PreferenceHandler struct {
	svc *services.PreferenceService
}

func NewPreferenceHandler(svc *services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// PutPreferences PUT /api/notifications/preferences
func (h *PreferenceHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var pref model.NotificationPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	pref.Email = strings.TrimSpace(pref.Email)
	if err := validate.Email(pref.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Put(r.Context(), &pref)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetPreferences GET /api/notifications/preferences/{email}
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
