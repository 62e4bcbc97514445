package dto

import (
	"time"

	"github.com/spec-kit/job-board-service/internal/domain"
)

// ApplicationResponse represents a filed application.
type ApplicationResponse struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"job_id"`
	JobTitle    string                   `json:"job_title"`
	ApplicantID string                   `json:"applicant_id"`
	Status      domain.ApplicationStatus `json:"status"`
	AppliedAt   time.Time                `json:"applied_at"`
}

// ApplicationWithJobResponse joins an application with its posting.
type ApplicationWithJobResponse struct {
	ApplicationResponse
	Job JobResponse `json:"job"`
}

// DashboardResponse aggregates a user's posted jobs and applications.
type DashboardResponse struct {
	PostedJobs   []PostedJobResponse          `json:"posted_jobs"`
	Applications []ApplicationWithJobResponse `json:"applications"`
}
