// Package store defines the persistence contract shared by the PostgreSQL
// and flat-file backends.  Exactly one implementation is selected at
// process start; call sites never branch on the backing medium.
package store

import (
	"context"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// JobFilter narrows ListJobs/CountJobs.  Zero values mean "no filter".
// Search is a case-insensitive substring match over company name, job
// title and location.  DateFrom/DateTo bound the YYYY-MM-DD application
// date inclusively.
type JobFilter struct {
	ClientID    string
	RecruiterID string
	Status      string
	Search      string
	DateFrom    string
	DateTo      string
	Limit       int
	Offset      int
}

// SessionFilter narrows ListSessions.  Zero values mean "no filter".
type SessionFilter struct {
	ClientID    string
	RecruiterID string
	Status      string
	Limit       int
}

// NotificationFilter narrows ListNotifications.  Read is a tri-state:
// nil means both read and unread.
type NotificationFilter struct {
	ClientID string
	Read     *bool
	Limit    int
}

// AdminPatch carries partial updates for an admin.  Nil fields are left
// untouched.
type AdminPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// RecruiterPatch carries partial updates for a recruiter.
type RecruiterPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// ClientPatch carries partial updates for a client.  AssignedRecruiter
// distinguishes "not provided" (nil) from "unassign" (pointer to empty
// string).
type ClientPatch struct {
	Name              *string
	Email             *string
	PasswordHash      *string
	AssignedRecruiter *string
	MonthlyTarget     *int
	DailyTarget       *int
	Instructions      *string
}

// JobPatch carries partial updates for a job.
type JobPatch struct {
	CompanyName *string
	JobTitle    *string
	JobLink     *string
	Location    *string
	Status      *string
	Notes       *string
}

// SessionPatch carries partial updates for a session.  Setting EndTime on
// a session that already has one is rejected with ErrConflict.
type SessionPatch struct {
	Status  *string
	EndTime *time.Time
}

// Store is the uniform persistence contract over the six entity types.
// Recruiter.AssignedClients is derived on read from the clients table and
// is never written directly.  Bulk Upsert* calls are atomic: either every
// row lands or none do.
type Store interface {
	// Admins
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	GetAdminByID(ctx context.Context, id string) (model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (model.Admin, error)
	CreateAdmin(ctx context.Context, a model.Admin) error
	UpdateAdmin(ctx context.Context, id string, p AdminPatch) (model.Admin, error)
	DeleteAdmin(ctx context.Context, id string) error

	// Recruiters
	ListRecruiters(ctx context.Context) ([]model.Recruiter, error)
	GetRecruiterByID(ctx context.Context, id string) (model.Recruiter, error)
	GetRecruiterByEmail(ctx context.Context, email string) (model.Recruiter, error)
	CreateRecruiter(ctx context.Context, r model.Recruiter) error
	UpdateRecruiter(ctx context.Context, id string, p RecruiterPatch) (model.Recruiter, error)
	UpsertRecruiters(ctx context.Context, rs []model.Recruiter) error
	DeleteRecruiter(ctx context.Context, id string) error

	// Clients
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClientByID(ctx context.Context, id string) (model.Client, error)
	GetClientByEmail(ctx context.Context, email string) (model.Client, error)
	CreateClient(ctx context.Context, c model.Client) error
	UpdateClient(ctx context.Context, id string, p ClientPatch) (model.Client, error)
	UpsertClients(ctx context.Context, cs []model.Client) error
	DeleteClient(ctx context.Context, id string) error
	// AssignClients reassigns the full client set of a recruiter in one
	// transaction: every client currently pointing at the recruiter is
	// unassigned, then the given ids are assigned.
	AssignClients(ctx context.Context, recruiterID string, clientIDs []string) error

	// Jobs
	ListJobs(ctx context.Context, f JobFilter) ([]model.Job, error)
	CountJobs(ctx context.Context, f JobFilter) (int, error)
	GetJobByID(ctx context.Context, id string) (model.Job, error)
	CreateJob(ctx context.Context, j model.Job) error
	UpdateJob(ctx context.Context, id string, p JobPatch) (model.Job, error)
	UpsertJobs(ctx context.Context, js []model.Job) error
	DeleteJob(ctx context.Context, id string) error

	// Sessions
	ListSessions(ctx context.Context, f SessionFilter) ([]model.Session, error)
	CreateSession(ctx context.Context, s model.Session) error
	UpdateSession(ctx context.Context, id string, p SessionPatch) (model.Session, error)
	UpsertSessions(ctx context.Context, ss []model.Session) error

	// Notifications
	ListNotifications(ctx context.Context, f NotificationFilter) ([]model.Notification, error)
	CreateNotification(ctx context.Context, n model.Notification) error
	UpsertNotifications(ctx context.Context, ns []model.Notification) error
	MarkNotificationRead(ctx context.Context, id, clientID string) error
	MarkAllNotificationsRead(ctx context.Context, clientID string) error
}
