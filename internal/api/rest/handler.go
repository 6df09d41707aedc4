package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
	"github.com/recruitflow/recruitflow-backend/internal/service"
)

// Handler manages HTTP request handlers
type Handler struct {
	listings  *service.ListingService
	batches   *service.BatchService
	dashboard *service.DashboardService
	searches  *service.SearchService
	mutations *service.MutationService
	collector *perf.Collector
	cache     *querycache.Store
	store     repository.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(
	listings *service.ListingService,
	batches *service.BatchService,
	dashboard *service.DashboardService,
	searches *service.SearchService,
	mutations *service.MutationService,
	collector *perf.Collector,
	cache *querycache.Store,
	store repository.Store,
) *Handler {
	return &Handler{
		listings:  listings,
		batches:   batches,
		dashboard: dashboard,
		searches:  searches,
		mutations: mutations,
		collector: collector,
		cache:     cache,
		store:     store,
	}
}

// SetupRoutes configures API routes
func SetupRoutes(router *mux.Router, h *Handler) {
	// Listings
	router.HandleFunc("/clients", h.ListClients).Methods("GET")
	router.HandleFunc("/jobs", h.ListJobs).Methods("GET")
	router.HandleFunc("/candidates", h.ListCandidates).Methods("GET")

	// Single-entity reads
	router.HandleFunc("/clients/{id}", h.GetClient).Methods("GET")
	router.HandleFunc("/jobs/{id}", h.GetJob).Methods("GET")
	router.HandleFunc("/candidates/{id}", h.GetCandidate).Methods("GET")

	// Batched reads
	router.HandleFunc("/jobs/batch", h.BatchGetJobs).Methods("POST")
	router.HandleFunc("/candidates/batch", h.BatchGetCandidates).Methods("POST")

	// Cross-entity views
	router.HandleFunc("/search", h.Search).Methods("GET")
	router.HandleFunc("/dashboard/stats", h.DashboardStats).Methods("GET")

	// Mutations
	router.HandleFunc("/clients", h.CreateClient).Methods("POST")
	router.HandleFunc("/clients/{id}", h.UpdateClient).Methods("PUT")
	router.HandleFunc("/jobs", h.CreateJob).Methods("POST")
	router.HandleFunc("/jobs/{id}", h.UpdateJob).Methods("PUT")
	router.HandleFunc("/candidates", h.CreateCandidate).Methods("POST")
	router.HandleFunc("/candidates/{id}", h.UpdateCandidate).Methods("PUT")
	router.HandleFunc("/applications", h.CreateApplication).Methods("POST")
	router.HandleFunc("/applications/{id}/stage", h.UpdateApplicationStage).Methods("PUT")

	// Operational surface
	router.HandleFunc("/performance", h.PerformanceReport).Methods("GET")
	router.HandleFunc("/admin/cache/invalidate", h.InvalidateCache).Methods("POST")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
