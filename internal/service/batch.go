package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// BatchService resolves many ids in one store round trip instead of one
// query per id.
type BatchService struct {
	store     repository.Store
	cache     *querycache.Store
	collector *perf.Collector
	ttl       time.Duration
}

func NewBatchService(store repository.Store, cache *querycache.Store, collector *perf.Collector, ttl time.Duration) *BatchService {
	return &BatchService{store: store, cache: cache, collector: collector, ttl: ttl}
}

// BatchGetJobs returns the jobs whose ids exist; unknown ids are skipped,
// not errors. An empty id list short-circuits without touching the store.
func (s *BatchService) BatchGetJobs(ctx context.Context, ids []string) ([]*models.Job, error) {
	norm := normalizeIDs(ids)
	if len(norm) == 0 {
		return []*models.Job{}, nil
	}
	key := querycache.Key("jobs.batch", map[string]string{"ids": strings.Join(norm, ",")})
	return perf.Cached(ctx, s.collector, s.cache, key, "jobs.batch", s.ttl, func(ctx context.Context) ([]*models.Job, error) {
		jobs, err := s.store.BatchGetJobs(ctx, norm)
		if err != nil {
			return nil, err
		}
		if jobs == nil {
			jobs = []*models.Job{}
		}
		return jobs, nil
	})
}

// BatchGetCandidates is the candidate counterpart of BatchGetJobs.
func (s *BatchService) BatchGetCandidates(ctx context.Context, ids []string) ([]*models.Candidate, error) {
	norm := normalizeIDs(ids)
	if len(norm) == 0 {
		return []*models.Candidate{}, nil
	}
	key := querycache.Key("candidates.batch", map[string]string{"ids": strings.Join(norm, ",")})
	return perf.Cached(ctx, s.collector, s.cache, key, "candidates.batch", s.ttl, func(ctx context.Context) ([]*models.Candidate, error) {
		candidates, err := s.store.BatchGetCandidates(ctx, norm)
		if err != nil {
			return nil, err
		}
		if candidates == nil {
			candidates = []*models.Candidate{}
		}
		return candidates, nil
	})
}

// normalizeIDs dedupes and sorts so permutations of the same id set share
// one cache entry and one store query.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	norm := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		norm = append(norm, id)
	}
	sort.Strings(norm)
	return norm
}
