package rest

import (
	"net/http"
	"strconv"

	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
	"github.com/recruitflow/recruitflow-backend/internal/service"
)

// listParams parses the shared pagination query parameters. filterParams
// maps query parameter names onto store filter columns; absent parameters
// are omitted.
func listParams(r *http.Request, filterParams map[string]string) (service.ListParams, error) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return service.ListParams{}, err
		}
		limit = n
	}

	filters := map[string]string{}
	for param, column := range filterParams {
		if v := q.Get(param); v != "" {
			filters[column] = v
		}
	}

	return service.ListParams{
		Limit:     limit,
		Cursor:    q.Get("cursor"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Filters:   filters,
	}, nil
}

// ListClients handles GET /clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())
	params, err := listParams(r, map[string]string{"status": "status", "industry": "industry"})
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid limit parameter", reqID)
		return
	}

	page, err := h.listings.ListClients(r.Context(), params)
	if err != nil {
		respondListError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// ListJobs handles GET /jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())
	params, err := listParams(r, map[string]string{"status": "status", "clientId": "client_id"})
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid limit parameter", reqID)
		return
	}

	page, err := h.listings.ListJobs(r.Context(), params)
	if err != nil {
		respondListError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// ListCandidates handles GET /candidates
func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())
	params, err := listParams(r, map[string]string{"status": "status", "stage": "stage"})
	if err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid limit parameter", reqID)
		return
	}

	page, err := h.listings.ListCandidates(r.Context(), params)
	if err != nil {
		respondListError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, page)
}
