package domain

import "time"

// ApplicationStatus enumerates lifecycle states for applications. New
// applications always start PENDING; later states are set out of band,
// no transition operation is exposed.
type ApplicationStatus string

const (
	ApplicationStatusPending       ApplicationStatus = "PENDING"
	ApplicationStatusUnderReview   ApplicationStatus = "UNDER_REVIEW"
	ApplicationStatusRejected      ApplicationStatus = "REJECTED"
	ApplicationStatusOfferExtended ApplicationStatus = "OFFER_EXTENDED"
)

// Application records one user applying to one job. At most one row may
// exist per (JobID, ApplicantID) pair; the applications table enforces
// this with a composite unique key.
type Application struct {
	ID          string
	JobID       string
	JobTitle    string
	ApplicantID string
	Status      ApplicationStatus
	AppliedAt   time.Time
}
