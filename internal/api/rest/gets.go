package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
)

// GetClient handles GET /clients/{id}
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	client, err := h.store.GetClient(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, logger.FromContext(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// GetJob handles GET /jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := h.store.GetJob(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, logger.FromContext(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// GetCandidate handles GET /candidates/{id}
func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	candidate, err := h.store.GetCandidate(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, logger.FromContext(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, candidate)
}
