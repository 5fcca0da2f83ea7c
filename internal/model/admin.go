package model

import "time"

// Admin represents a platform administrator.  Admins manage every other
// account type and see aggregate reports.  The password hash is never
// serialized; handlers expose a hasPassword flag where the UI needs it.
//
// Fields:
//  ID           – opaque unique identifier.
//  Name         – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hash of the password.
//  Role         – role tag, always "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
