package rest

import (
	"encoding/json"
	"net/http"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
)

type batchRequest struct {
	IDs []string `json:"ids"`
}

// BatchGetJobs handles POST /jobs/batch
func (h *Handler) BatchGetJobs(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "ids must be an array of strings", reqID)
		return
	}

	jobs, err := h.batches.BatchGetJobs(r.Context(), req.IDs)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": jobs})
}

// BatchGetCandidates handles POST /candidates/batch
func (h *Handler) BatchGetCandidates(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "ids must be an array of strings", reqID)
		return
	}

	candidates, err := h.batches.BatchGetCandidates(r.Context(), req.IDs)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": candidates})
}
