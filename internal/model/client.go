package model

import "time"

// Client represents an employer on whose behalf a recruiter applies to
// jobs.  Portal access is optional: a client without a password hash
// exists but cannot log in.
//
// Fields:
//  ID                – opaque unique identifier.
//  Name              – company/contact name.
//  Email             – unique email address.
//  PasswordHash      – bcrypt hash; empty when portal access is not set up.
//  AssignedRecruiter – id of the recruiter working for this client, empty when unassigned.
//  MonthlyTarget     – application goal per month, non-negative.
//  DailyTarget       – application goal per day, non-negative.
//  Instructions      – free-text instructions for the recruiter.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type Client struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	AssignedRecruiter string    `json:"assignedRecruiter,omitempty"`
	MonthlyTarget     int       `json:"monthlyTarget"`
	DailyTarget       int       `json:"dailyTarget"`
	Instructions      string    `json:"instructions"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
