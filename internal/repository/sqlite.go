package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/recruitflow/recruitflow-backend/internal/models"
)

// SQLiteRepository implements Store using SQLite. It backs desktop and
// development deployments; there is no full-text infrastructure, so the
// FullText search methods report ErrSearchUnsupported.
type SQLiteRepository struct {
	db  *sqlx.DB
	rec QueryRecorder
}

// NewSQLiteRepository opens (or creates) a SQLite database at the given path.
func NewSQLiteRepository(dbPath string, rec QueryRecorder) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite serializes writers anyway; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db, rec: rec}, nil
}

// sqliteDSN pins the driver's time format so stored timestamps sort
// lexicographically, which keyset cursors on created_at rely on.
func sqliteDSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath
	}
	if dbPath == ":memory:" {
		return "file::memory:?_time_format=sqlite"
	}
	return dbPath + "?_time_format=sqlite"
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping verifies database connectivity.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RunMigrations runs database migrations.
func (r *SQLiteRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

// ClientStore implementation

func (r *SQLiteRepository) CreateClient(ctx context.Context, c *models.Client) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO clients (id, name, industry, contact_email, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return instrumentQuery(r.rec, "clients.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			c.ID, c.Name, c.Industry, c.ContactEmail, c.Notes, c.Status, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (r *SQLiteRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE clients
		SET name = ?, industry = ?, contact_email = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ?
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

func (r *SQLiteRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	query := `SELECT * FROM clients WHERE id = ?`

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

func (r *SQLiteRepository) ListClients(ctx context.Context, opts ListOptions) ([]*models.Client, error) {
	query, args, err := buildListQuery("clients", []string{"status", "industry"}, opts)
	if err != nil {
		return nil, err
	}

	var clients []*models.Client
	err = instrumentQuery(r.rec, "clients.list", func() error {
		return r.db.SelectContext(ctx, &clients, query, args...)
	})
	return clients, err
}

// JobStore implementation

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *models.Job) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return instrumentQuery(r.rec, "jobs.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			j.ID, j.ClientID, j.Title, j.Description, j.Location, j.Status, j.CreatedAt, j.UpdatedAt)
		return err
	})
}

func (r *SQLiteRepository) UpdateJob(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE jobs
		SET client_id = ?, title = ?, description = ?, location = ?, status = ?, updated_at = ?
		WHERE id = ?
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

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	query := `SELECT * FROM jobs WHERE id = ?`

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

func (r *SQLiteRepository) ListJobs(ctx context.Context, opts ListOptions) ([]*models.Job, error) {
	query, args, err := buildListQuery("jobs", []string{"status", "client_id"}, opts)
	if err != nil {
		return nil, err
	}

	var jobs []*models.Job
	err = instrumentQuery(r.rec, "jobs.list", func() error {
		return r.db.SelectContext(ctx, &jobs, query, args...)
	})
	return jobs, err
}

func (r *SQLiteRepository) BatchGetJobs(ctx context.Context, ids []string) ([]*models.Job, error) {
	if len(ids) == 0 {
		return []*models.Job{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM jobs WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var jobs []*models.Job
	err = instrumentQuery(r.rec, "jobs.batch_get", func() error {
		return r.db.SelectContext(ctx, &jobs, r.db.Rebind(query), args...)
	})
	return jobs, err
}

// CandidateStore implementation

func (r *SQLiteRepository) CreateCandidate(ctx context.Context, c *models.Candidate) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return instrumentQuery(r.rec, "candidates.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			c.ID, c.FullName, c.Email, c.Headline, c.Skills, c.Status, c.Stage, c.CreatedAt, c.UpdatedAt)
		return err
	})
}

func (r *SQLiteRepository) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE candidates
		SET full_name = ?, email = ?, headline = ?, skills = ?, status = ?, stage = ?, updated_at = ?
		WHERE id = ?
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

func (r *SQLiteRepository) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	query := `SELECT * FROM candidates WHERE id = ?`

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

func (r *SQLiteRepository) ListCandidates(ctx context.Context, opts ListOptions) ([]*models.Candidate, error) {
	query, args, err := buildListQuery("candidates", []string{"status", "stage"}, opts)
	if err != nil {
		return nil, err
	}

	var candidates []*models.Candidate
	err = instrumentQuery(r.rec, "candidates.list", func() error {
		return r.db.SelectContext(ctx, &candidates, query, args...)
	})
	return candidates, err
}

func (r *SQLiteRepository) BatchGetCandidates(ctx context.Context, ids []string) ([]*models.Candidate, error) {
	if len(ids) == 0 {
		return []*models.Candidate{}, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM candidates WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var candidates []*models.Candidate
	err = instrumentQuery(r.rec, "candidates.batch_get", func() error {
		return r.db.SelectContext(ctx, &candidates, r.db.Rebind(query), args...)
	})
	return candidates, err
}

func (r *SQLiteRepository) CreateApplication(ctx context.Context, a *models.Application) error {
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
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return instrumentQuery(r.rec, "applications.create", func() error {
		_, err := r.db.ExecContext(ctx, query,
			a.ID, a.JobID, a.CandidateID, a.Stage, a.CreatedAt, a.UpdatedAt)
		return err
	})
}

func (r *SQLiteRepository) UpdateApplicationStage(ctx context.Context, id, stage string) (*models.Application, error) {
	query := `UPDATE applications SET stage = ?, updated_at = ? WHERE id = ?`

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
	if err := r.db.GetContext(ctx, &a, `SELECT * FROM applications WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// StatsStore implementation

func (r *SQLiteRepository) ReadDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
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

func (r *SQLiteRepository) CountClients(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_clients", `SELECT COUNT(*) FROM clients`)
}

func (r *SQLiteRepository) CountJobs(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_jobs", `SELECT COUNT(*) FROM jobs`)
}

func (r *SQLiteRepository) CountJobsByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, "dashboard.count_jobs_by_status", `SELECT COUNT(*) FROM jobs WHERE status = ?`, status)
}

func (r *SQLiteRepository) CountCandidates(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_candidates", `SELECT COUNT(*) FROM candidates`)
}

func (r *SQLiteRepository) CountCandidatesByStatus(ctx context.Context, status string) (int, error) {
	return r.count(ctx, "dashboard.count_candidates_by_status", `SELECT COUNT(*) FROM candidates WHERE status = ?`, status)
}

func (r *SQLiteRepository) CountApplications(ctx context.Context) (int, error) {
	return r.count(ctx, "dashboard.count_applications", `SELECT COUNT(*) FROM applications`)
}

func (r *SQLiteRepository) CountApplicationsByStage(ctx context.Context, stage string) (int, error) {
	return r.count(ctx, "dashboard.count_applications_by_stage", `SELECT COUNT(*) FROM applications WHERE stage = ?`, stage)
}

func (r *SQLiteRepository) count(ctx context.Context, operation, query string, args ...interface{}) (int, error) {
	var n int
	err := instrumentQuery(r.rec, operation, func() error {
		return r.db.GetContext(ctx, &n, query, args...)
	})
	return n, err
}

// SearchStore implementation

func (r *SQLiteRepository) SearchClientsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Client, error) {
	return nil, ErrSearchUnsupported
}

func (r *SQLiteRepository) SearchClientsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Client, error) {
	var clients []*models.Client
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM clients
		WHERE lower(name) LIKE lower(?) OR lower(industry) LIKE lower(?) OR lower(notes) LIKE lower(?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	err := instrumentQuery(r.rec, "search.clients_substring", func() error {
		return r.db.SelectContext(ctx, &clients, query, pattern, pattern, pattern, limit, offset)
	})
	return clients, err
}

func (r *SQLiteRepository) SearchJobsFullText(ctx context.Context, q string, limit, offset int) ([]*models.Job, error) {
	return nil, ErrSearchUnsupported
}

func (r *SQLiteRepository) SearchJobsSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Job, error) {
	var jobs []*models.Job
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM jobs
		WHERE lower(title) LIKE lower(?) OR lower(description) LIKE lower(?) OR lower(location) LIKE lower(?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	err := instrumentQuery(r.rec, "search.jobs_substring", func() error {
		return r.db.SelectContext(ctx, &jobs, query, pattern, pattern, pattern, limit, offset)
	})
	return jobs, err
}

func (r *SQLiteRepository) SearchCandidatesFullText(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error) {
	return nil, ErrSearchUnsupported
}

func (r *SQLiteRepository) SearchCandidatesSubstring(ctx context.Context, q string, limit, offset int) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	pattern := "%" + q + "%"
	query := `
		SELECT * FROM candidates
		WHERE lower(full_name) LIKE lower(?) OR lower(headline) LIKE lower(?) OR lower(skills) LIKE lower(?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	err := instrumentQuery(r.rec, "search.candidates_substring", func() error {
		return r.db.SelectContext(ctx, &candidates, query, pattern, pattern, pattern, limit, offset)
	})
	return candidates, err
}

// buildListQuery assembles the filtered, cursored list query shared by the
// SQLite entity listings. Filter and sort columns are whitelisted by the
// caller, never taken from request input directly.
func buildListQuery(table string, filterCols []string, opts ListOptions) (string, []interface{}, error) {
	col := sortColumn(opts.SortBy)
	dir := sortDirection(opts.SortOrder)

	query := fmt.Sprintf(`SELECT * FROM %s WHERE 1=1`, table)
	args := []interface{}{}

	for _, filter := range filterCols {
		if v := opts.Filters[filter]; v != "" {
			query += fmt.Sprintf(" AND %s = ?", filter)
			args = append(args, v)
		}
	}

	if opts.Cursor != "" {
		bound, err := cursorBound(opts.Cursor)
		if err != nil {
			return "", nil, err
		}
		cmp := "<"
		if dir == "ASC" {
			cmp = ">"
		}
		query += fmt.Sprintf(" AND %s %s ?", col, cmp)
		args = append(args, bound)
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT ?", col, dir)
	args = append(args, opts.Limit)

	return query, args, nil
}
