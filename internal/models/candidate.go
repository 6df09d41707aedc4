package models

import "time"

type CandidateStage string

const (
	StageSourced   CandidateStage = "sourced"
	StageScreening CandidateStage = "screening"
	StageInterview CandidateStage = "interview"
	StageOffer     CandidateStage = "offer"
	StagePlaced    CandidateStage = "placed"
)

// Candidate is a person in the talent pool.
type Candidate struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Headline  string    `json:"headline,omitempty" db:"headline"`
	Skills    string    `json:"skills,omitempty" db:"skills"`
	Status    string    `json:"status" db:"status"`
	Stage     string    `json:"stage" db:"stage"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Application links a candidate to a job and tracks its pipeline stage.
type Application struct {
	ID          string    `json:"id" db:"id"`
	JobID       string    `json:"job_id" db:"job_id"`
	CandidateID string    `json:"candidate_id" db:"candidate_id"`
	Stage       string    `json:"stage" db:"stage"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
