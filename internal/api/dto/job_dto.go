package dto

import (
	"time"

	"github.com/spec-kit/job-board-service/internal/domain"
)

// CreateJobRequest payload.
type CreateJobRequest struct {
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	Type        domain.JobType `json:"type"`
	Salary      *string        `json:"salary,omitempty"`
	Description string         `json:"description"`
}

// JobResponse represents a posting.
type JobResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	Type        domain.JobType `json:"type"`
	Salary      *string        `json:"salary,omitempty"`
	Description string         `json:"description"`
	PostedByID  string         `json:"posted_by_id"`
	PostedAt    time.Time      `json:"posted_at"`
}

// PostedJobResponse is a posting annotated with its applicant count, as
// shown on the poster's dashboard.
type PostedJobResponse struct {
	JobResponse
	ApplicationCount int `json:"application_count"`
}
