package model

import "time"

// Recruiter represents a recruiter account.  AssignedClients is a derived
// view: it is computed on read from the clients whose assignedRecruiter
// points back at this recruiter, never stored, so it cannot drift from the
// source of truth under concurrent reassignment.
//
// Fields:
//  ID              – opaque unique identifier.
//  Name            – display name.
//  Email           – unique email address.
//  PasswordHash    – bcrypt hash; empty until the account is activated.
//  AssignedClients – ids of clients currently assigned to this recruiter.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Recruiter struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	AssignedClients []string  `json:"assignedClients"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
