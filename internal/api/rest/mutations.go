package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
)

// CreateClient handles POST /clients
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	if strings.TrimSpace(client.Name) == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, "name is required", reqID)
		return
	}

	created, err := h.mutations.CreateClient(r.Context(), &client)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateClient handles PUT /clients/{id}
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	client.ID = mux.Vars(r)["id"]

	updated, err := h.mutations.UpdateClient(r.Context(), &client)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// CreateJob handles POST /jobs
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.ClientID) == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, "title and client_id are required", reqID)
		return
	}

	created, err := h.mutations.CreateJob(r.Context(), &job)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateJob handles PUT /jobs/{id}
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	job.ID = mux.Vars(r)["id"]

	updated, err := h.mutations.UpdateJob(r.Context(), &job)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// CreateCandidate handles POST /candidates
func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var candidate models.Candidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	if strings.TrimSpace(candidate.FullName) == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, "full_name is required", reqID)
		return
	}

	created, err := h.mutations.CreateCandidate(r.Context(), &candidate)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateCandidate handles PUT /candidates/{id}
func (h *Handler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var candidate models.Candidate
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	candidate.ID = mux.Vars(r)["id"]

	updated, err := h.mutations.UpdateCandidate(r.Context(), &candidate)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// CreateApplication handles POST /applications
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	if strings.TrimSpace(app.JobID) == "" || strings.TrimSpace(app.CandidateID) == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, "job_id and candidate_id are required", reqID)
		return
	}

	created, err := h.mutations.CreateApplication(r.Context(), &app)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateApplicationStage handles PUT /applications/{id}/stage
func (h *Handler) UpdateApplicationStage(w http.ResponseWriter, r *http.Request) {
	reqID := logger.FromContext(r.Context())

	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body", reqID)
		return
	}
	if strings.TrimSpace(req.Stage) == "" {
		respondErrorWithCode(w, http.StatusBadRequest, ErrCodeValidationFailed, "stage is required", reqID)
		return
	}

	updated, err := h.mutations.UpdateApplicationStage(r.Context(), mux.Vars(r)["id"], req.Stage)
	if err != nil {
		respondServiceError(w, err, reqID)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
