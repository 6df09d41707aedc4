package service

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// DashboardService serves the aggregate dashboard counters. It prefers the
// precomputed stats row and falls back to live counting queries run
// concurrently; an individual count that fails is reported as zero rather
// than failing the whole dashboard.
type DashboardService struct {
	store     repository.Store
	cache     *querycache.Store
	collector *perf.Collector
	ttl       time.Duration
}

func NewDashboardService(store repository.Store, cache *querycache.Store, collector *perf.Collector, ttl time.Duration) *DashboardService {
	return &DashboardService{store: store, cache: cache, collector: collector, ttl: ttl}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	key := querycache.Key("dashboard.stats", nil)
	return perf.Cached(ctx, s.collector, s.cache, key, "dashboard.stats", s.ttl, func(ctx context.Context) (*models.DashboardStats, error) {
		if stats, err := s.store.ReadDashboardStats(ctx); err == nil {
			return stats, nil
		}
		return s.computeLive(ctx), nil
	})
}

func (s *DashboardService) computeLive(ctx context.Context) *models.DashboardStats {
	stats := &models.DashboardStats{LastUpdated: time.Now().UTC()}

	// Each goroutine writes its own field, so no lock is needed.
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, operation string, fn func(context.Context) (int, error)) func() error {
		return func() error {
			n, err := fn(gctx)
			if err != nil {
				logger.QueryLog(os.Stderr, logger.FromContext(ctx), operation, 0, err.Error())
				return nil
			}
			*dst = n
			return nil
		}
	}

	g.Go(count(&stats.TotalClients, "dashboard.count_clients", s.store.CountClients))
	g.Go(count(&stats.TotalJobs, "dashboard.count_jobs", s.store.CountJobs))
	g.Go(count(&stats.OpenJobs, "dashboard.count_open_jobs", func(ctx context.Context) (int, error) {
		return s.store.CountJobsByStatus(ctx, string(models.JobOpen))
	}))
	g.Go(count(&stats.TotalCandidates, "dashboard.count_candidates", s.store.CountCandidates))
	g.Go(count(&stats.ActiveCandidates, "dashboard.count_active_candidates", func(ctx context.Context) (int, error) {
		return s.store.CountCandidatesByStatus(ctx, "active")
	}))
	g.Go(count(&stats.TotalApplications, "dashboard.count_applications", s.store.CountApplications))
	g.Go(count(&stats.ApplicationsInInterview, "dashboard.count_interviews", func(ctx context.Context) (int, error) {
		return s.store.CountApplicationsByStage(ctx, string(models.StageInterview))
	}))

	_ = g.Wait()
	return stats
}
