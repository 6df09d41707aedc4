package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// brokenFullTextStore simulates a backend whose full-text infrastructure
// exists but fails at query time.
type brokenFullTextStore struct {
	repository.Store
	err error
}

func (s *brokenFullTextStore) SearchJobsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Job, error) {
	return nil, s.err
}

func TestSearchAcrossAllTypes(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	ctx := context.Background()

	client := &models.Client{Name: "Golang Partners", Industry: "consulting", Status: "active"}
	if err := repo.CreateClient(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}
	job := &models.Job{ClientID: client.ID, Title: "Golang Engineer", Status: "open"}
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	cand := &models.Candidate{FullName: "Ann", Skills: "golang, sql"}
	if err := repo.CreateCandidate(ctx, cand); err != nil {
		t.Fatalf("create candidate: %v", err)
	}

	svc := NewSearchService(repo, cache, collector, time.Minute)
	results, err := svc.Search(ctx, "golang", "", 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results.Clients) != 1 || len(results.Jobs) != 1 || len(results.Candidates) != 1 {
		t.Fatalf("expected one match per type, got %d/%d/%d",
			len(results.Clients), len(results.Jobs), len(results.Candidates))
	}
	if results.Query != "golang" {
		t.Fatalf("expected query echoed back, got %q", results.Query)
	}
}

func TestSearchTypeFilterKeepsStableShape(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	ctx := context.Background()
	seedJobSet(t, repo, "Golang Engineer")

	svc := NewSearchService(repo, cache, collector, time.Minute)
	results, err := svc.Search(ctx, "golang", SearchTypeJobs, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(results.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(results.Jobs))
	}
	if results.Clients == nil || results.Candidates == nil {
		t.Fatal("expected filtered-out types as empty lists, not nil")
	}
	if len(results.Clients) != 0 || len(results.Candidates) != 0 {
		t.Fatalf("expected filtered-out types empty, got %d clients, %d candidates",
			len(results.Clients), len(results.Candidates))
	}
}

func TestSearchCaseInsensitiveOnSQLite(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	ctx := context.Background()
	seedJobSet(t, repo, "Senior Go Engineer")

	svc := NewSearchService(repo, cache, collector, time.Minute)
	results, err := svc.Search(ctx, "ENGINEER", SearchTypeJobs, 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results.Jobs) != 1 {
		t.Fatalf("expected the substring fallback to match case-insensitively, got %d", len(results.Jobs))
	}
}

func TestSearchFullTextFailureFallsBackToSubstring(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	ctx := context.Background()
	seedJobSet(t, repo, "Golang Engineer")

	store := &brokenFullTextStore{Store: repo, err: errors.New("tsquery syntax error")}
	svc := NewSearchService(store, cache, collector, time.Minute)

	results, err := svc.Search(ctx, "golang", SearchTypeJobs, 10, 0)
	if err != nil {
		t.Fatalf("expected the fallback to absorb the full-text failure, got %v", err)
	}
	if len(results.Jobs) != 1 {
		t.Fatalf("expected 1 job from the substring fallback, got %d", len(results.Jobs))
	}
}

func TestSearchCanceledContextNotDowngraded(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	seedJobSet(t, repo, "Golang Engineer")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &brokenFullTextStore{Store: repo, err: context.Canceled}
	svc := NewSearchService(store, cache, collector, time.Minute)

	if _, err := svc.Search(ctx, "golang", SearchTypeJobs, 10, 0); err == nil {
		t.Fatal("expected a canceled search to surface its error")
	}
}

func TestSearchSecondCallServedFromCache(t *testing.T) {
	repo, cache, collector := setupServiceDeps(t)
	ctx := context.Background()
	svc := NewSearchService(repo, cache, collector, time.Minute)

	if _, err := svc.Search(ctx, "golang", "", 10, 0); err != nil {
		t.Fatalf("first search: %v", err)
	}
	queries := collector.Report(cache.Len()).Queries

	if _, err := svc.Search(ctx, "golang", "", 10, 0); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if got := collector.Report(cache.Len()).Queries; got != queries {
		t.Fatalf("expected cached search, queries went %d -> %d", queries, got)
	}
}

func TestValidSearchType(t *testing.T) {
	for _, typ := range []string{"", "clients", "jobs", "candidates"} {
		if !ValidSearchType(typ) {
			t.Fatalf("expected %q to be valid", typ)
		}
	}
	if ValidSearchType("invoices") {
		t.Fatal("expected unknown type to be rejected")
	}
}
