package repository

import (
	"errors"
	"testing"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

func TestCandidateDefaultsOnCreate(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	c := &models.Candidate{FullName: "Dana Smith"}
	if err := repo.CreateCandidate(ctx, c); err != nil {
		t.Fatalf("create candidate: %v", err)
	}

	got, err := repo.GetCandidate(ctx, c.ID)
	if err != nil {
		t.Fatalf("get candidate: %v", err)
	}
	if got.Status != "active" || got.Stage != "sourced" {
		t.Fatalf("expected defaults active/sourced, got %s/%s", got.Status, got.Stage)
	}
}

func TestCandidateListFilterByStage(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	seedCandidate(t, ctx, repo, "Ann", "sourced")
	seedCandidate(t, ctx, repo, "Bob", "interview")
	seedCandidate(t, ctx, repo, "Cleo", "interview")

	candidates, err := repo.ListCandidates(ctx, ListOptions{
		Filters: map[string]string{"stage": "interview"},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 interview candidates, got %d", len(candidates))
	}
}

func TestCandidateBatchGet(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	a := seedCandidate(t, ctx, repo, "Ann", "sourced")
	b := seedCandidate(t, ctx, repo, "Bob", "interview")

	got, err := repo.BatchGetCandidates(ctx, []string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("batch get candidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
}

func TestApplicationCreateAndStageTransition(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	client := seedClient(t, ctx, repo, "Acme", "manufacturing", "active")
	job := seedJob(t, ctx, repo, client.ID, "Engineer", "open")
	cand := seedCandidate(t, ctx, repo, "Ann", "screening")

	app := &models.Application{JobID: job.ID, CandidateID: cand.ID}
	if err := repo.CreateApplication(ctx, app); err != nil {
		t.Fatalf("create application: %v", err)
	}
	if app.Stage != "applied" {
		t.Fatalf("expected default stage applied, got %s", app.Stage)
	}

	updated, err := repo.UpdateApplicationStage(ctx, app.ID, "interview")
	if err != nil {
		t.Fatalf("update application stage: %v", err)
	}
	if updated.Stage != "interview" {
		t.Fatalf("expected stage interview, got %s", updated.Stage)
	}

	_, err = repo.UpdateApplicationStage(ctx, "missing-id", "offer")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
