package model

import "time"

// Job statuses.  A job counts toward application stats when its status is
// StatusApplied or StatusToBeApplied.
const (
	StatusApplied     = "Applied"
	StatusToBeApplied = "To be Applied"
	StatusNotFit      = "Not Fit"
	StatusDuplicate   = "Duplicate"
)

// ValidStatus reports whether s is one of the four job statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusApplied, StatusToBeApplied, StatusNotFit, StatusDuplicate:
		return true
	}
	return false
}

// CountsAsApplication reports whether a job with status s contributes to
// dashboard and report counts.
func CountsAsApplication(s string) bool {
	return s == StatusApplied || s == StatusToBeApplied
}

// Job is a single application logged by a recruiter for a client.  Date is
// the calendar application date as a YYYY-MM-DD string, distinct from the
// CreatedAt timestamp which records when the row was entered.
//
// Fields:
//  ID          – opaque unique identifier.
//  ClientID    – owning client.
//  RecruiterID – recruiter who logged the application.
//  CompanyName – employer applied to.
//  JobTitle    – position title.
//  JobLink     – posting URL.
//  Location    – optional location text.
//  Status      – one of the Status* constants.
//  Notes       – optional free text.
//  Date        – application date, YYYY-MM-DD.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Job struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	RecruiterID string    `json:"recruiterId"`
	CompanyName string    `json:"companyName"`
	JobTitle    string    `json:"jobTitle"`
	JobLink     string    `json:"jobLink"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
