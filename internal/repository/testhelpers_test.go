package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	dbmigrations "github.com/recruitflow/recruitflow-backend/migrations"
)

func setupTestRepo(t *testing.T) (*SQLiteRepository, context.Context) {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "recruitflow_test.db")
	repo, err := NewSQLiteRepository(dbPath, nil)
	if err != nil {
		t.Fatalf("create sqlite repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	entries, err := dbmigrations.FS.ReadDir(".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sqlBytes, readErr := dbmigrations.FS.ReadFile(entry.Name())
		if readErr != nil {
			t.Fatalf("read migration %s: %v", entry.Name(), readErr)
		}
		if runErr := repo.RunMigrations(string(sqlBytes)); runErr != nil {
			t.Fatalf("run migration %s: %v", entry.Name(), runErr)
		}
	}

	return repo, ctx
}

func seedClient(t *testing.T, ctx context.Context, repo *SQLiteRepository, name, industry, status string) *models.Client {
	t.Helper()
	c := &models.Client{Name: name, Industry: industry, Status: status}
	if err := repo.CreateClient(ctx, c); err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	// Keyset cursors order on created_at, so give rows distinct timestamps.
	time.Sleep(2 * time.Millisecond)
	return c
}

func seedJob(t *testing.T, ctx context.Context, repo *SQLiteRepository, clientID, title, status string) *models.Job {
	t.Helper()
	j := &models.Job{ClientID: clientID, Title: title, Status: status}
	if err := repo.CreateJob(ctx, j); err != nil {
		t.Fatalf("create job %s: %v", title, err)
	}
	time.Sleep(2 * time.Millisecond)
	return j
}

func seedCandidate(t *testing.T, ctx context.Context, repo *SQLiteRepository, name, stage string) *models.Candidate {
	t.Helper()
	c := &models.Candidate{FullName: name, Stage: stage}
	if err := repo.CreateCandidate(ctx, c); err != nil {
		t.Fatalf("create candidate %s: %v", name, err)
	}
	time.Sleep(2 * time.Millisecond)
	return c
}

func seedJobs(t *testing.T, ctx context.Context, repo *SQLiteRepository, clientID string, n int) []*models.Job {
	t.Helper()
	jobs := make([]*models.Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, seedJob(t, ctx, repo, clientID, fmt.Sprintf("Engineer %02d", i), "open"))
	}
	return jobs
}
