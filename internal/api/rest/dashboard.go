package rest

import (
	"net/http"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
)

// DashboardStats handles GET /dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err, logger.FromContext(r.Context()))
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
