package domain

import "time"

// User is the domain model for people who post and apply to jobs.
// Accounts are created on first OAuth sign-in; the profile fields are
// refreshed from the provider on later sign-ins.
type User struct {
	ID         string
	Name       string
	Email      string
	AvatarURL  *string
	Provider   string
	ProviderID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
