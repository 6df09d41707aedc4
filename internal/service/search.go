package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/logger"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// Search entity type filters. Empty means all types.
const (
	SearchTypeClients    = "clients"
	SearchTypeJobs       = "jobs"
	SearchTypeCandidates = "candidates"
)

// SearchResults always carries all three entity keys; types excluded by the
// filter stay as empty lists so the response shape is stable.
type SearchResults struct {
	Query      string              `json:"query"`
	Clients    []*models.Client    `json:"clients"`
	Jobs       []*models.Job       `json:"jobs"`
	Candidates []*models.Candidate `json:"candidates"`
}

// SearchService runs cross-entity search. Each entity type tries the
// store's ranked full-text path first and independently falls back to the
// substring scan when the backend has no full-text support.
type SearchService struct {
	store     repository.Store
	cache     *querycache.Store
	collector *perf.Collector
	ttl       time.Duration
}

func NewSearchService(store repository.Store, cache *querycache.Store, collector *perf.Collector, ttl time.Duration) *SearchService {
	return &SearchService{store: store, cache: cache, collector: collector, ttl: ttl}
}

// ValidSearchType reports whether typ is an accepted type filter value.
func ValidSearchType(typ string) bool {
	switch typ {
	case "", SearchTypeClients, SearchTypeJobs, SearchTypeCandidates:
		return true
	}
	return false
}

func (s *SearchService) Search(ctx context.Context, q, typ string, limit, offset int) (*SearchResults, error) {
	limit = repository.EffectiveLimit(limit)
	if offset < 0 {
		offset = 0
	}

	key := querycache.Key("search", map[string]string{
		"q":      q,
		"type":   typ,
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	return perf.Cached(ctx, s.collector, s.cache, key, "search", s.ttl, func(ctx context.Context) (*SearchResults, error) {
		results := &SearchResults{
			Query:      q,
			Clients:    []*models.Client{},
			Jobs:       []*models.Job{},
			Candidates: []*models.Candidate{},
		}

		g, gctx := errgroup.WithContext(ctx)
		if typ == "" || typ == SearchTypeClients {
			g.Go(func() error {
				clients, err := searchWithFallback(gctx, q, "search.clients", limit, offset,
					s.store.SearchClientsFullText, s.store.SearchClientsSubstring)
				if err != nil {
					return err
				}
				results.Clients = clients
				return nil
			})
		}
		if typ == "" || typ == SearchTypeJobs {
			g.Go(func() error {
				jobs, err := searchWithFallback(gctx, q, "search.jobs", limit, offset,
					s.store.SearchJobsFullText, s.store.SearchJobsSubstring)
				if err != nil {
					return err
				}
				results.Jobs = jobs
				return nil
			})
		}
		if typ == "" || typ == SearchTypeCandidates {
			g.Go(func() error {
				candidates, err := searchWithFallback(gctx, q, "search.candidates", limit, offset,
					s.store.SearchCandidatesFullText, s.store.SearchCandidatesSubstring)
				if err != nil {
					return err
				}
				results.Candidates = candidates
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	})
}

type searchFn[T any] func(ctx context.Context, q string, limit, offset int) ([]T, error)

// searchWithFallback tries the ranked full-text path and downgrades to the
// substring scan on any failure short of context cancellation. A backend
// without full-text support reports ErrSearchUnsupported and lands here on
// every call; anything else is an unexpected query failure and gets logged
// before the downgrade.
func searchWithFallback[T any](ctx context.Context, q, operation string, limit, offset int, fullText, substring searchFn[T]) ([]T, error) {
	start := time.Now()
	rows, err := fullText(ctx, q, limit, offset)
	if err != nil && ctx.Err() == nil {
		if !errors.Is(err, repository.ErrSearchUnsupported) {
			logger.QueryLog(os.Stderr, logger.FromContext(ctx), operation, time.Since(start), err.Error())
		}
		rows, err = substring(ctx, q, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
