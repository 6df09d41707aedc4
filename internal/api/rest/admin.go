package rest

import (
	"encoding/json"
	"net/http"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
)

// PerformanceReport handles GET /performance: the collector snapshot plus
// current cache size.
func (h *Handler) PerformanceReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.collector.Report(h.cache.Len()))
}

// InvalidateCache handles POST /admin/cache/invalidate. The pattern is a
// plain substring matched against cache keys; an empty pattern matches
// every key and clears the whole cache.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}

	n := h.mutations.InvalidateCache(req.Pattern)
	respondJSON(w, http.StatusOK, map[string]int{"invalidated": n})
}
