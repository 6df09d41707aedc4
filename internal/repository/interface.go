// Package repository provides the relational store behind the performance
// layer. Two implementations exist: Postgres for production and SQLite for
// desktop/dev deployments; the SQLite one has no full-text infrastructure,
// so its full-text search reports ErrSearchUnsupported and callers use the
// substring path.
package repository

import (
	"context"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

// ClientStore persists hiring clients.
type ClientStore interface {
	CreateClient(ctx context.Context, c *models.Client) error
	UpdateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context, opts ListOptions) ([]*models.Client, error)
}

// JobStore persists job openings.
type JobStore interface {
	CreateJob(ctx context.Context, j *models.Job) error
	UpdateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, opts ListOptions) ([]*models.Job, error)
	BatchGetJobs(ctx context.Context, ids []string) ([]*models.Job, error)
}

// CandidateStore persists candidates and their applications.
type CandidateStore interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, opts ListOptions) ([]*models.Candidate, error)
	BatchGetCandidates(ctx context.Context, ids []string) ([]*models.Candidate, error)
	CreateApplication(ctx context.Context, a *models.Application) error
	UpdateApplicationStage(ctx context.Context, id, stage string) (*models.Application, error)
}

// StatsStore serves the dashboard: one precomputed aggregate row on the
// fast path, individual counting queries on the fallback path.
type StatsStore interface {
	ReadDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	CountClients(ctx context.Context) (int, error)
	CountJobs(ctx context.Context) (int, error)
	CountJobsByStatus(ctx context.Context, status string) (int, error)
	CountCandidates(ctx context.Context) (int, error)
	CountCandidatesByStatus(ctx context.Context, status string) (int, error)
	CountApplications(ctx context.Context) (int, error)
	CountApplicationsByStage(ctx context.Context, stage string) (int, error)
}

// SearchStore serves cross-entity search. FullText methods rank matches;
// Substring methods are the case-insensitive fallback.
type SearchStore interface {
	SearchClientsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Client, error)
	SearchClientsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Client, error)
	SearchJobsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Job, error)
	SearchJobsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Job, error)
	SearchCandidatesFullText(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error)
	SearchCandidatesSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error)
}

// Store is the full relational store surface the services depend on.
type Store interface {
	ClientStore
	JobStore
	CandidateStore
	StatsStore
	SearchStore

	RunMigrations(migrationSQL string) error
	Ping(ctx context.Context) error
	Close() error
}
