package model

import "time"

// Notification types created as side effects of job and session mutations.
const (
	NotifySessionStarted = "session_started"
	NotifySessionEnded   = "session_ended"
	NotifyJobAdded       = "job_added"
)

// Notification is a message shown to a client in the portal.  Rows are
// only ever created and marked read, never deleted by the system.
type Notification struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
