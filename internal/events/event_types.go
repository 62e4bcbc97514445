package events

import (
	"time"

	"github.com/spec-kit/job-board-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobPosted            EventType = "job_posted"
	EventApplicationSubmitted EventType = "application_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JobID     string      `json:"job_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobPostedPayload payload.
type JobPostedPayload struct {
	Title    string         `json:"title"`
	Company  string         `json:"company"`
	Location string         `json:"location"`
	Type     domain.JobType `json:"type"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID string `json:"application_id"`
	JobTitle      string `json:"job_title"`
	ApplicantID   string `json:"applicant_id"`
	PosterID      string `json:"poster_id"`
}
