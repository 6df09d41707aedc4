// Package service implements the read and mutation paths of the
// performance layer: cached listings, batched fetches, the dashboard
// aggregate, cross-entity search, and the mutation gateway that keeps the
// cache and websocket subscribers consistent with the store.
package service

import (
	"context"
	"strconv"
	"time"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/perf"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// ListParams are the client-facing pagination knobs for one listing call.
// Cursor is the opaque token from a previous page's NextCursor.
type ListParams struct {
	Limit     int
	Cursor    string
	SortBy    string
	SortOrder string
	Filters   map[string]string
}

// PaginatedResult is one page of rows plus the token to fetch the next one.
type PaginatedResult[T any] struct {
	Data        []T    `json:"data"`
	HasNextPage bool   `json:"hasNextPage"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

// ListingService serves cached, cursor-paginated entity listings.
type ListingService struct {
	store     repository.Store
	cache     *querycache.Store
	collector *perf.Collector
	ttl       time.Duration
}

func NewListingService(store repository.Store, cache *querycache.Store, collector *perf.Collector, ttl time.Duration) *ListingService {
	return &ListingService{store: store, cache: cache, collector: collector, ttl: ttl}
}

func (s *ListingService) ListClients(ctx context.Context, p ListParams) (PaginatedResult[*models.Client], error) {
	key := listKey("clients.list", p)
	return perf.Cached(ctx, s.collector, s.cache, key, "clients.list", s.ttl, func(ctx context.Context) (PaginatedResult[*models.Client], error) {
		opts, err := listOptions(p)
		if err != nil {
			return PaginatedResult[*models.Client]{}, err
		}
		rows, err := s.store.ListClients(ctx, opts)
		if err != nil {
			return PaginatedResult[*models.Client]{}, err
		}
		return paginate(rows, opts.Limit-1, func(c *models.Client) string {
			return sortValue(p.SortBy, c.CreatedAt, c.UpdatedAt)
		}), nil
	})
}

func (s *ListingService) ListJobs(ctx context.Context, p ListParams) (PaginatedResult[*models.Job], error) {
	key := listKey("jobs.list", p)
	return perf.Cached(ctx, s.collector, s.cache, key, "jobs.list", s.ttl, func(ctx context.Context) (PaginatedResult[*models.Job], error) {
		opts, err := listOptions(p)
		if err != nil {
			return PaginatedResult[*models.Job]{}, err
		}
		rows, err := s.store.ListJobs(ctx, opts)
		if err != nil {
			return PaginatedResult[*models.Job]{}, err
		}
		return paginate(rows, opts.Limit-1, func(j *models.Job) string {
			return sortValue(p.SortBy, j.CreatedAt, j.UpdatedAt)
		}), nil
	})
}

func (s *ListingService) ListCandidates(ctx context.Context, p ListParams) (PaginatedResult[*models.Candidate], error) {
	key := listKey("candidates.list", p)
	return perf.Cached(ctx, s.collector, s.cache, key, "candidates.list", s.ttl, func(ctx context.Context) (PaginatedResult[*models.Candidate], error) {
		opts, err := listOptions(p)
		if err != nil {
			return PaginatedResult[*models.Candidate]{}, err
		}
		rows, err := s.store.ListCandidates(ctx, opts)
		if err != nil {
			return PaginatedResult[*models.Candidate]{}, err
		}
		return paginate(rows, opts.Limit-1, func(c *models.Candidate) string {
			return sortValue(p.SortBy, c.CreatedAt, c.UpdatedAt)
		}), nil
	})
}

// listOptions translates request parameters into a store query. The limit is
// bumped by one so the store fetch doubles as the next-page probe.
func listOptions(p ListParams) (repository.ListOptions, error) {
	raw, err := repository.DecodeCursor(p.Cursor)
	if err != nil {
		return repository.ListOptions{}, err
	}
	return repository.ListOptions{
		Filters:   p.Filters,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Limit:     repository.EffectiveLimit(p.Limit) + 1,
		Cursor:    raw,
	}, nil
}

// listKey derives the cache key for a listing call from every parameter
// that changes the result set. Unset filters are omitted so the same page
// requested with and without empty filter params shares one entry.
func listKey(op string, p ListParams) string {
	params := map[string]string{
		"limit":     strconv.Itoa(repository.EffectiveLimit(p.Limit)),
		"sortBy":    p.SortBy,
		"sortOrder": p.SortOrder,
		"cursor":    p.Cursor,
	}
	for name, value := range p.Filters {
		if value != "" {
			params[name] = value
		}
	}
	return querycache.Key(op, params)
}

// paginate trims the probe row off a limit+1 fetch and derives the
// next-page token from the last row kept.
func paginate[T any](rows []T, limit int, cursorValue func(T) string) PaginatedResult[T] {
	result := PaginatedResult[T]{Data: rows}
	if result.Data == nil {
		result.Data = []T{}
	}
	if len(rows) > limit {
		result.Data = rows[:limit]
		result.HasNextPage = true
	}
	if result.HasNextPage && len(result.Data) > 0 {
		result.NextCursor = repository.EncodeCursor(cursorValue(result.Data[len(result.Data)-1]))
	}
	return result
}

func sortValue(sortBy string, created, updated time.Time) string {
	if sortBy == "updated_at" {
		return updated.Format(time.RFC3339Nano)
	}
	return created.Format(time.RFC3339Nano)
}

