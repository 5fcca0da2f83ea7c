package model

import "time"

// Session statuses.  The only permitted transition is active -> completed.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// Session is a bounded period during which a recruiter actively applies on
// behalf of one client.  At most one active session may exist per
// (client, recruiter) pair.  EndTime is nil while the session is active
// and immutable once set.
//
// Fields:
//  ID          – opaque unique identifier.
//  ClientID    – client the session is for.
//  RecruiterID – recruiter running the session.
//  Status      – SessionActive or SessionCompleted.
//  StartTime   – when the session was opened.
//  EndTime     – when the session was closed, nil while active.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Session struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"clientId"`
	RecruiterID string     `json:"recruiterId"`
	Status      string     `json:"status"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
