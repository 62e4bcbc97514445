package domain

import "time"

// JobType enumerates employment categories for postings.
type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
)

// ValidJobType reports whether t is a known job type.
func ValidJobType(t JobType) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// Job is the aggregate for job postings. Postings are append-only; no
// edit or delete workflow exists.
type Job struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Type        JobType
	Salary      *string
	Description string
	PostedByID  string
	PostedAt    time.Time
}
