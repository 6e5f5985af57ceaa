package model

import "time"

// Notification kinds.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is a transient user-visible notice (a toast) that is
// also logged to the local store.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Kind is either "success" or "error".
	Kind string `json:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
