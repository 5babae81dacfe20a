package api

import (
	"github.com/gorilla/mux"

	"github.com/strcomply/strcomply/internal/api/recovery"
	"github.com/strcomply/strcomply/internal/search"
	"github.com/strcomply/strcomply/internal/services"
	"github.com/strcomply/strcomply/internal/store"
)

// NewRouter wires every API route onto a gorilla/mux router.
func NewRouter(st store.Store) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	engine := search.New(st)
	savedSvc := services.NewSavedSearchService(st, engine)
	recordSvc := services.NewRecordService(st)
	prefSvc := services.NewPreferenceService(st)

	healthHandler := NewHealthHandler()
	searchHandler := NewSearchHandler(engine, savedSvc)
	recordHandler := NewRecordHandler(recordSvc, engine)
	prefHandler := NewPreferenceHandler(prefSvc)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Search endpoints
	router.HandleFunc("/api/search/advanced", searchHandler.HandleAdvancedSearch).Methods("POST")
	router.HandleFunc("/api/search/suggestions", searchHandler.HandleSuggestions).Methods("GET")

	// Saved-search endpoints
	router.HandleFunc("/api/search/saved", searchHandler.CreateSavedSearch).Methods("POST")
	router.HandleFunc("/api/search/saved", searchHandler.ListSavedSearches).Methods("GET")
	router.HandleFunc("/api/search/saved/{id}/apply", searchHandler.ApplySavedSearch).Methods("POST")
	router.HandleFunc("/api/search/saved/{id}", searchHandler.DeleteSavedSearch).Methods("DELETE")

	// Regulation endpoints
	router.HandleFunc("/api/regulations", recordHandler.CreateRegulation).Methods("POST")
	router.HandleFunc("/api/regulations", recordHandler.ListRegulations).Methods("GET")
	router.HandleFunc("/api/regulations/{id}", recordHandler.GetRegulation).Methods("GET")
	router.HandleFunc("/api/regulations/{id}", recordHandler.UpdateRegulation).Methods("PUT")
	router.HandleFunc("/api/regulations/{id}", recordHandler.DeleteRegulation).Methods("DELETE")

	// Update endpoints
	router.HandleFunc("/api/updates", recordHandler.CreateUpdate).Methods("POST")
	router.HandleFunc("/api/updates", recordHandler.ListUpdates).Methods("GET")
	router.HandleFunc("/api/updates/{id}", recordHandler.GetUpdate).Methods("GET")
	router.HandleFunc("/api/updates/{id}", recordHandler.UpdateUpdate).Methods("PUT")
	router.HandleFunc("/api/updates/{id}", recordHandler.DeleteUpdate).Methods("DELETE")

	// Notification preference endpoints
	router.HandleFunc("/api/notifications/preferences", prefHandler.PutPreferences).Methods("PUT")
	router.HandleFunc("/api/notifications/preferences/{email}", prefHandler.GetPreferences).Methods("GET")

	return router
}
