package service

import (
	"context"

	"github.com/recruitflow/recruitflow-backend/internal/models"
	"github.com/recruitflow/recruitflow-backend/internal/pkg/querycache"
	"github.com/recruitflow/recruitflow-backend/internal/repository"
)

// Broadcaster publishes a payload to every subscriber of a channel.
// Satisfied by *websocket.Hub.
type Broadcaster interface {
	Broadcast(channel string, payload map[string]interface{})
}

// MutationService is the single write path. Every mutation persists first,
// then drops the cache entries the write made stale, then notifies
// websocket subscribers. A failed write does neither.
type MutationService struct {
	store repository.Store
	cache *querycache.Store
	hub   Broadcaster
}

func NewMutationService(store repository.Store, cache *querycache.Store, hub Broadcaster) *MutationService {
	return &MutationService{store: store, cache: cache, hub: hub}
}

func (s *MutationService) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	s.afterWrite("clients", models.ChannelClientUpdates, "client_created", c.ID, c)
	return c, nil
}

func (s *MutationService) UpdateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, err
	}
	s.afterWrite("clients", models.ChannelClientUpdates, "client_updated", c.ID, c)
	return c, nil
}

func (s *MutationService) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if err := s.store.CreateJob(ctx, j); err != nil {
		return nil, err
	}
	s.afterWrite("jobs", models.ChannelJobUpdates, "job_created", j.ID, j)
	return j, nil
}

func (s *MutationService) UpdateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if err := s.store.UpdateJob(ctx, j); err != nil {
		return nil, err
	}
	s.afterWrite("jobs", models.ChannelJobUpdates, "job_updated", j.ID, j)
	return j, nil
}

func (s *MutationService) CreateCandidate(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	if err := s.store.CreateCandidate(ctx, c); err != nil {
		return nil, err
	}
	s.afterWrite("candidates", models.ChannelCandidateUpdates, "candidate_created", c.ID, c)
	return c, nil
}

func (s *MutationService) UpdateCandidate(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	if err := s.store.UpdateCandidate(ctx, c); err != nil {
		return nil, err
	}
	s.afterWrite("candidates", models.ChannelCandidateUpdates, "candidate_updated", c.ID, c)
	return c, nil
}

func (s *MutationService) CreateApplication(ctx context.Context, a *models.Application) (*models.Application, error) {
	if err := s.store.CreateApplication(ctx, a); err != nil {
		return nil, err
	}
	s.afterWrite("candidates", models.ChannelApplicationUpdates, "application_created", a.ID, a)
	return a, nil
}

func (s *MutationService) UpdateApplicationStage(ctx context.Context, id, stage string) (*models.Application, error) {
	a, err := s.store.UpdateApplicationStage(ctx, id, stage)
	if err != nil {
		return nil, err
	}
	s.afterWrite("candidates", models.ChannelApplicationUpdates, "application_stage_changed", a.ID, a)
	return a, nil
}

// InvalidateCache drops cache entries whose keys contain pattern and
// returns how many were removed. Exposed for the admin endpoint.
func (s *MutationService) InvalidateCache(pattern string) int {
	return s.cache.InvalidatePattern(pattern)
}

// afterWrite drops the listing caches for the written entity plus the two
// cross-entity views every write can affect, then publishes the event.
func (s *MutationService) afterWrite(entityPrefix, channel, eventType, id string, data interface{}) {
	s.cache.InvalidatePattern(entityPrefix)
	s.cache.InvalidatePattern("dashboard")
	s.cache.InvalidatePattern("search")

	if s.hub != nil {
		s.hub.Broadcast(channel, map[string]interface{}{
			"type": eventType,
			"id":   id,
			"data": data,
		})
	}
}
