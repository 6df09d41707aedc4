package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
	dbmigrations "github.com/recruitflow/recruitflow-backend/migrations"
)

func setupServiceDeps(t *testing.T) (*repository.SQLiteRepository, *querycache.Store, *perf.Collector) {
	t.Helper()

	collector := perf.NewCollector()
	dbPath := filepath.Join(t.TempDir(), "svc.db")
	repo, err := repository.NewSQLiteRepository(dbPath, collector)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	entries, err := dbmigrations.FS.ReadDir(".")
	if err != nil {
		t.Fatalf("read embedded migrations dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		sqlBytes, readErr := dbmigrations.FS.ReadFile(e.Name())
		if readErr != nil {
			t.Fatalf("read migration %s: %v", e.Name(), readErr)
		}
		if runErr := repo.RunMigrations(string(sqlBytes)); runErr != nil {
			t.Fatalf("run migration %s: %v", e.Name(), runErr)
		}
	}

	return repo, querycache.New(time.Minute), collector
}

func seedJobSet(t *testing.T, repo *repository.SQLiteRepository, titles ...string) []*models.Job {
	t.Helper()
	ctx := context.Background()

	client := &models.Client{Name: "Acme", Industry: "manufacturing", Status: "active"}
	if err := repo.CreateClient(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	jobs := make([]*models.Job, 0, len(titles))
	for _, title := range titles {
		j := &models.Job{ClientID: client.ID, Title: title, Status: "open"}
		if err := repo.CreateJob(ctx, j); err != nil {
			t.Fatalf("create job %s: %v", title, err)
		}
		jobs = append(jobs, j)
		time.Sleep(2 * time.Millisecond)
	}
	return jobs
}

// recordingHub captures broadcasts for assertions.
type recordingHub struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	channel string
	payload map[string]interface{}
}

func (h *recordingHub) Broadcast(channel string, payload map[string]interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{channel: channel, payload: payload})
}

func (h *recordingHub) recorded() []recordedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedEvent(nil), h.events...)
}
