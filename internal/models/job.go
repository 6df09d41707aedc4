package models

import "time"

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobOnHold JobStatus = "on_hold"
	JobFilled JobStatus = "filled"
	JobClosed JobStatus = "closed"
)

// Job is an open position at a client.
type Job struct {
	ID          string    `json:"id" db:"id"`
	ClientID    string    `json:"client_id" db:"client_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Location    string    `json:"location,omitempty" db:"location"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
