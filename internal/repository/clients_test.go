package repository

import (
	"errors"
	"testing"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

func TestClientCreateGetUpdate(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	c := &models.Client{
		Name:         "Acme Robotics",
		Industry:     "manufacturing",
		ContactEmail: "talent@acme.example",
		Status:       "active",
	}
	if err := repo.CreateClient(ctx, c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected generated client ID")
	}

	got, err := repo.GetClient(ctx, c.ID)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if got.Name != "Acme Robotics" || got.ContactEmail != "talent@acme.example" {
		t.Fatalf("unexpected client: %+v", got)
	}

	got.Status = "inactive"
	if err := repo.UpdateClient(ctx, got); err != nil {
		t.Fatalf("update client: %v", err)
	}
	updated, err := repo.GetClient(ctx, c.ID)
	if err != nil {
		t.Fatalf("get updated client: %v", err)
	}
	if updated.Status != "inactive" {
		t.Fatalf("expected status inactive, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatal("expected updated_at to advance past created_at")
	}
}

func TestClientGetNotFound(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	_, err := repo.GetClient(ctx, "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientUpdateNotFound(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	err := repo.UpdateClient(ctx, &models.Client{ID: "missing-id", Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientListFilters(t *testing.T) {
	repo, ctx := setupTestRepo(t)

	seedClient(t, ctx, repo, "Acme", "manufacturing", "active")
	seedClient(t, ctx, repo, "Globex", "finance", "active")
	seedClient(t, ctx, repo, "Initech", "finance", "inactive")

	clients, err := repo.ListClients(ctx, ListOptions{
		Filters: map[string]string{"industry": "finance"},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 finance clients, got %d", len(clients))
	}

	clients, err = repo.ListClients(ctx, ListOptions{
		Filters: map[string]string{"industry": "finance", "status": "active"},
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(clients) != 1 || clients[0].Name != "Globex" {
		t.Fatalf("expected only Globex, got %+v", clients)
	}
}
