package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

// PostgresRepository implements Store using PostgreSQL.
type PostgresRepository struct {
	db  *sqlx.DB
	rec QueryRecorder
}

// NewPostgresRepository connects to PostgreSQL and configures the pool.
func NewPostgresRepository(connectionString string, rec QueryRecorder) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepository{db: db, rec: rec}, nil
}

// Close closes the database connection.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping verifies database connectivity.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RunMigrations runs database migrations.
func (r *PostgresRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

// sortColumn whitelists sortable columns; anything else falls back to
// created_at so request parameters never reach SQL unchecked.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "created_at", "updated_at":
		return sortBy
	default:
		return "created_at"
	}
}

func sortDirection(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}

// cursorBound converts a decoded cursor value into a query argument. Sort
// columns are timestamps, so the bound is parsed back into time.Time to
// compare correctly on both Postgres and SQLite.
func cursorBound(value string) (interface{}, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return t, nil
}

// ClientStore implementation

func (r *PostgresRepository) CreateClient(ctx context.Context, c *models.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO clients (id, name, industry, contact_email, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return instrumentQuery(r.rec, "clients.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			c.ID, c.Name, c.Industry, c.ContactEmail, c.Notes, c.Status, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (r *PostgresRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE clients
		SET name = $1, industry = $2, contact_email = $3, notes = $4, status = $5, updated_at = $6
		WHERE id = $7
	`
	return instrumentQuery(r.rec, "clients.update", func() error {
		res, err := r.db.ExecContext(ctx, query,
			c.Name, c.Industry, c.ContactEmail, c.Notes, c.Status, c.UpdatedAt, c.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
		}
		return nil
	})
}

func (r *PostgresRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	query := `SELECT * FROM clients WHERE id = $1`

	err := instrumentQuery(r.rec, "clients.get", func() error {
		return r.db.GetContext(ctx, &c, query, id)
	})
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListClients(ctx context.Context, opts ListOptions) ([]*models.Client, error) {
	col := sortColumn(opts.SortBy)
	dir := sortDirection(opts.SortOrder)

	query := `SELECT * FROM clients WHERE 1=1`
	args := []interface{}{}
	paramCount := 1

	for _, filter := range []string{"status", "industry"} {
		if v := opts.Filters[filter]; v != "" {
			query += fmt.Sprintf(" AND %s = $%d", filter, paramCount)
			args = append(args, v)
			paramCount++
		}
	}

	if opts.Cursor != "" {
		bound, err := cursorBound(opts.Cursor)
		if err != nil {
			return nil, err
		}
		cmp := "<"
		if dir == "ASC" {
			cmp = ">"
		}
		query += fmt.Sprintf(" AND %s %s $%d", col, cmp, paramCount)
		args = append(args, bound)
		paramCount++
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", col, dir, paramCount)
	args = append(args, opts.Limit)

	var clients []*models.Client
	err := instrumentQuery(r.rec, "clients.list", func() error {
		return r.db.SelectContext(ctx, &clients, query, args...)
	})
	return clients, err
}

// JobStore implementation

func (r *PostgresRepository) CreateJob(ctx context.Context, j *models.Job) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = string(models.JobOpen)
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	query := `
		INSERT INTO jobs (id, client_id, title, description, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return instrumentQuery(r.rec, "jobs.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			j.ID, j.ClientID, j.Title, j.Description, j.Location, j.Status, j.CreatedAt, j.UpdatedAt)
		return err
	})
}

func (r *PostgresRepository) UpdateJob(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE jobs
		SET client_id = $1, title = $2, description = $3, location = $4, status = $5, updated_at = $6
		WHERE id = $7
	`
	return instrumentQuery(r.rec, "jobs.update", func() error {
		res, err := r.db.ExecContext(ctx, query,
			j.ClientID, j.Title, j.Description, j.Location, j.Status, j.UpdatedAt, j.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("job %s: %w", j.ID, ErrNotFound)
		}
		return nil
	})
}

func (r *PostgresRepository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	query := `SELECT * FROM jobs WHERE id = $1`

	err := instrumentQuery(r.rec, "jobs.get", func() error {
		return r.db.GetContext(ctx, &j, query, id)
	})
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) ListJobs(ctx context.Context, opts ListOptions) ([]*models.Job, error) {
	col := sortColumn(opts.SortBy)
	dir := sortDirection(opts.SortOrder)

	query := `SELECT * FROM jobs WHERE 1=1`
	args := []interface{}{}
	paramCount := 1

	for _, filter := range []string{"status", "client_id"} {
		if v := opts.Filters[filter]; v != "" {
			query += fmt.Sprintf(" AND %s = $%d", filter, paramCount)
			args = append(args, v)
			paramCount++
		}
	}

	if opts.Cursor != "" {
		bound, err := cursorBound(opts.Cursor)
		if err != nil {
			return nil, err
		}
		cmp := "<"
		if dir == "ASC" {
			cmp = ">"
		}
		query += fmt.Sprintf(" AND %s %s $%d", col, cmp, paramCount)
		args = append(args, bound)
		paramCount++
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", col, dir, paramCount)
	args = append(args, opts.Limit)

	var jobs []*models.Job
	err := instrumentQuery(r.rec, "jobs.list", func() error {
		return r.db.SelectContext(ctx, &jobs, query, args...)
	})
	return jobs, err
}

func (r *PostgresRepository) BatchGetJobs(ctx context.Context, ids []string) ([]*models.Job, error) {
	if len(ids) == 0 {
		return []*models.Job{}, nil
	}
	var jobs []*models.Job
	query := `SELECT * FROM jobs WHERE id = ANY($1)`

	err := instrumentQuery(r.rec, "jobs.batch_get", func() error {
		return r.db.SelectContext(ctx, &jobs, query, pq.Array(ids))
	})
	return jobs, err
}

// CandidateStore implementation

func (r *PostgresRepository) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = "active"
	}
	if c.Stage == "" {
		c.Stage = string(models.StageSourced)
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO candidates (id, full_name, email, headline, skills, status, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	return instrumentQuery(r.rec, "candidates.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			c.ID, c.FullName, c.Email, c.Headline, c.Skills, c.Status, c.Stage, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (r *PostgresRepository) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE candidates
		SET full_name = $1, email = $2, headline = $3, skills = $4, status = $5, stage = $6, updated_at = $7
		WHERE id = $8
	`
	return instrumentQuery(r.rec, "candidates.update", func() error {
		res, err := r.db.ExecContext(ctx, query,
			c.FullName, c.Email, c.Headline, c.Skills, c.Status, c.Stage, c.UpdatedAt, c.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("candidate %s: %w", c.ID, ErrNotFound)
		}
		return nil
	})
}

func (r *PostgresRepository) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	query := `SELECT * FROM candidates WHERE id = $1`

	err := instrumentQuery(r.rec, "candidates.get", func() error {
		return r.db.GetContext(ctx, &c, query, id)
	})
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListCandidates(ctx context.Context, opts ListOptions) ([]*models.Candidate, error) {
	col := sortColumn(opts.SortBy)
	dir := sortDirection(opts.SortOrder)

	query := `SELECT * FROM candidates WHERE 1=1`
	args := []interface{}{}
	paramCount := 1

	for _, filter := range []string{"status", "stage"} {
		if v := opts.Filters[filter]; v != "" {
			query += fmt.Sprintf(" AND %s = $%d", filter, paramCount)
			args = append(args, v)
			paramCount++
		}
	}

	if opts.Cursor != "" {
		bound, err := cursorBound(opts.Cursor)
		if err != nil {
			return nil, err
		}
		cmp := "<"
		if dir == "ASC" {
			cmp = ">"
		}
		query += fmt.Sprintf(" AND %s %s $%d", col, cmp, paramCount)
		args = append(args, bound)
		paramCount++
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", col, dir, paramCount)
	args = append(args, opts.Limit)

	var candidates []*models.Candidate
	err := instrumentQuery(r.rec, "candidates.list", func() error {
		return r.db.SelectContext(ctx, &candidates, query, args...)
	})
	return candidates, err
}

func (r *PostgresRepository) BatchGetCandidates(ctx context.Context, ids []string) ([]*models.Candidate, error) {
	if len(ids) == 0 {
		return []*models.Candidate{}, nil
	}
	var candidates []*models.Candidate
	query := `SELECT * FROM candidates WHERE id = ANY($1)`

	err := instrumentQuery(r.rec, "candidates.batch_get", func() error {
		return r.db.SelectContext(ctx, &candidates, query, pq.Array(ids))
	})
	return candidates, err
}

func (r *PostgresRepository) CreateApplication(ctx context.Context, a *models.Application) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Stage == "" {
		a.Stage = "applied"
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO applications (id, job_id, candidate_id, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	return instrumentQuery(r.rec, "applications.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			a.ID, a.JobID, a.CandidateID, a.Stage, a.CreatedAt, a.UpdatedAt)
		return err
	})
}

func (r *PostgresRepository) UpdateApplicationStage(ctx context.Context, id, stage string) (*models.Application, error) {
	query := `UPDATE applications SET stage = $1, updated_at = $2 WHERE id = $3`

	err := instrumentQuery(r.rec, "applications.update_stage", func() error {
		res, execErr := r.db.ExecContext(ctx, query, stage, time.Now().UTC(), id)
		if execErr != nil {
			return execErr
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var a models.Application
	if err := r.db.GetContext(ctx, &a, `SELECT * FROM applications WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// StatsStore implementation

func (r *PostgresRepository) ReadDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	query := `
		SELECT total_clients, total_jobs, open_jobs, total_candidates, active_candidates,
		       total_applications, applications_in_interview, last_updated
		FROM dashboard_stats
		ORDER BY last_updated DESC
		LIMIT 1
	`
	err := instrumentQuery(r.rec, "dashboard.read_precomputed", func() error {
		return r.db.GetContext(ctx, &stats, query)
	})
	if err != nil {
		return nil, fmt.Errorf("precomputed dashboard stats unavailable: %w", err)
	}
	return &stats, nil
}

func (r *PostgresRepository) CountClients(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_clients", `SELECT COUNT(*) FROM clients`)
}

func (r *PostgresRepository) CountJobs(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_jobs", `SELECT COUNT(*) FROM jobs`)
}

func (r *PostgresRepository) CountJobsByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, "dashboard.count_jobs_by_status", `SELECT COUNT(*) FROM jobs WHERE status = $1`, status)
}

func (r *PostgresRepository) CountCandidates(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_candidates", `SELECT COUNT(*) FROM candidates`)
}

func (r *PostgresRepository) CountCandidatesByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, "dashboard.count_candidates_by_status", `SELECT COUNT(*) FROM candidates WHERE status = $1`, status)
}

func (r *PostgresRepository) CountApplications(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_applications", `SELECT COUNT(*) FROM applications`)
}

func (r *PostgresRepository) CountApplicationsByStage(ctx context.Context, stage string) (int, error) {
	return r.count(ctx, "dashboard.count_applications_by_stage", `SELECT COUNT(*) FROM applications WHERE stage = $1`, stage)
}

func (r *PostgresRepository) count(ctx context.Context, operation, query string, args ...interface{}) (int, error) {
	var n int
	err := instrumentQuery(r.rec, operation, func() error {
		return r.db.GetContext(ctx, &n, query, args...)
	})
	return n, err
}

// SearchStore implementation

func (r *PostgresRepository) SearchClientsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Client, error) {
	var clients []*models.Client
	query := `
		SELECT * FROM clients
		WHERE to_tsvector('english', name || ' ' || industry || ' ' || notes) @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', name || ' ' || industry || ' ' || notes), plainto_tsquery('english', $1)) DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.clients_fts", func() error {
		return r.db.SelectContext(ctx, &clients, query, q, limit, offset)
	})
	return clients, err
}

func (r *PostgresRepository) SearchClientsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Client, error) {
	var clients []*models.Client
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM clients
		WHERE name ILIKE $1 OR industry ILIKE $1 OR notes ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.clients_substring", func() error {
		return r.db.SelectContext(ctx, &clients, query, pattern, limit, offset)
	})
	return clients, err
}

func (r *PostgresRepository) SearchJobsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Job, error) {
	var jobs []*models.Job
	query := `
		SELECT * FROM jobs
		WHERE to_tsvector('english', title || ' ' || description || ' ' || location) @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || description || ' ' || location), plainto_tsquery('english', $1)) DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.jobs_fts", func() error {
		return r.db.SelectContext(ctx, &jobs, query, q, limit, offset)
	})
	return jobs, err
}

func (r *PostgresRepository) SearchJobsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Job, error) {
	var jobs []*models.Job
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM jobs
		WHERE title ILIKE $1 OR description ILIKE $1 OR location ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.jobs_substring", func() error {
		return r.db.SelectContext(ctx, &jobs, query, pattern, limit, offset)
	})
	return jobs, err
}

func (r *PostgresRepository) SearchCandidatesFullText(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	query := `
		SELECT * FROM candidates
		WHERE to_tsvector('english', full_name || ' ' || headline || ' ' || skills) @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', full_name || ' ' || headline || ' ' || skills), plainto_tsquery('english', $1)) DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.candidates_fts", func() error {
		return r.db.SelectContext(ctx, &candidates, query, q, limit, offset)
	})
	return candidates, err
}

func (r *PostgresRepository) SearchCandidatesSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM candidates
		WHERE full_name ILIKE $1 OR headline ILIKE $1 OR skills ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	err := instrumentQuery(r.rec, "search.candidates_substring", func() error {
		return r.db.SelectContext(ctx, &candidates, query, pattern, limit, offset)
	})
	return candidates, err
}
