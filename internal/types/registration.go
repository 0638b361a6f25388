package types

import "time"

// RegistrationStatus represents the lifecycle state of a registration.
// Only RegistrationStatusConfirmed is produced today.
type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
)

// Registration is one user's signup for one event. EventID is a weak
// reference and may point at an event that no longer exists.
type Registration struct {
	ID               string             `json:"id"`
	EventID          string             `json:"eventId"`
	UserName         string             `json:"userName"`
	UserEmail        string             `json:"userEmail"`
	RegistrationDate time.Time          `json:"registrationDate"`
	Status           RegistrationStatus `json:"status"`
}

// UserRegistration pairs a confirmed registration with the event it points at.
type UserRegistration struct {
	Registration Registration `json:"registration"`
	Event        Event        `json:"event"`
}
