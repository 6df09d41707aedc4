package models

import "time"

// DashboardStats is the flat set of counters the dashboard renders.
// It is recomputed wholesale, never patched field by field.
type DashboardStats struct {
	TotalClients            int       `json:"total_clients" db:"total_clients"`
	TotalJobs               int       `json:"total_jobs" db:"total_jobs"`
	OpenJobs                int       `json:"open_jobs" db:"open_jobs"`
	TotalCandidates         int       `json:"total_candidates" db:"total_candidates"`
	ActiveCandidates        int       `json:"active_candidates" db:"active_candidates"`
	TotalApplications       int       `json:"total_applications" db:"total_applications"`
	ApplicationsInInterview int       `json:"applications_in_interview" db:"applications_in_interview"`
	LastUpdated             time.Time `json:"last_updated" db:"last_updated"`
}
