package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
	"github.com/recruitflow/recruitflow-backend/internal/service"
)

// Search handles GET /search?q=...&type=...&limit=...&offset=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "q parameter is required", reqID)
		return
	}

	typ := r.URL.Query().Get("type")
	if !service.ValidSearchType(typ) {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "type must be clients, jobs, or candidates", reqID)
		return
	}

	limit, err := intParam(r, "limit", 0)
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid limit parameter", reqID)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid offset parameter", reqID)
		return
	}

	results, err := h.searches.Search(r.Context(), q, typ, limit, offset)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
