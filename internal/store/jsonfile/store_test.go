package jsonfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestAssignedClientsDerived(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	if err := s.CreateRecruiter(ctx, model.Recruiter{ID: "r1", Name: "Rita", Email: "rita@x.com", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create recruiter: %v", err)
	}
	for _, c := range []model.Client{
		{ID: "c1", Name: "Acme", Email: "acme@x.com", AssignedRecruiter: "r1", CreatedAt: now, UpdatedAt: now},
		{ID: "c2", Name: "Beta", Email: "beta@x.com", CreatedAt: now, UpdatedAt: now},
	} {
		if err := s.CreateClient(ctx, c); err != nil {
			t.Fatalf("create client %s: %v", c.ID, err)
		}
	}

	r, err := s.GetRecruiterByID(ctx, "r1")
	if err != nil {
		t.Fatalf("get recruiter: %v", err)
	}
	if len(r.AssignedClients) != 1 || r.AssignedClients[0] != "c1" {
		t.Fatalf("assigned clients = %v, want [c1]", r.AssignedClients)
	}

	if err := s.AssignClients(ctx, "r1", []string{"c2"}); err != nil {
		t.Fatalf("assign clients: %v", err)
	}
	r, _ = s.GetRecruiterByID(ctx, "r1")
	if len(r.AssignedClients) != 1 || r.AssignedClients[0] != "c2" {
		t.Fatalf("after reassign, assigned clients = %v, want [c2]", r.AssignedClients)
	}
	c1, _ := s.GetClientByID(ctx, "c1")
	if c1.AssignedRecruiter != "" {
		t.Fatalf("c1 still assigned to %q after reassign", c1.AssignedRecruiter)
	}
}

func TestDeleteRecruiterUnassignsClients(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	s.CreateRecruiter(ctx, model.Recruiter{ID: "r1", Email: "r@x.com", CreatedAt: now, UpdatedAt: now})
	s.CreateClient(ctx, model.Client{ID: "c1", Email: "c@x.com", AssignedRecruiter: "r1", CreatedAt: now, UpdatedAt: now})

	if err := s.DeleteRecruiter(ctx, "r1"); err != nil {
		t.Fatalf("delete recruiter: %v", err)
	}
	c, err := s.GetClientByID(ctx, "c1")
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if c.AssignedRecruiter != "" {
		t.Fatalf("client still assigned to %q", c.AssignedRecruiter)
	}
}

func TestDeleteClientPreservesJobs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	s.CreateClient(ctx, model.Client{ID: "c1", Email: "c@x.com", CreatedAt: now, UpdatedAt: now})
	s.CreateJob(ctx, model.Job{ID: "j1", ClientID: "c1", RecruiterID: "r1", Status: model.StatusApplied, Date: "2026-08-30", CreatedAt: now, UpdatedAt: now})

	if err := s.DeleteClient(ctx, "c1"); err != nil {
		t.Fatalf("delete client: %v", err)
	}
	jobs, err := s.ListJobs(ctx, store.JobFilter{ClientID: "c1"})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("jobs after client delete = %d, want 1", len(jobs))
	}
}

func TestSessionEndTimeWriteOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	start := time.Now().UTC().Add(-time.Hour)
	s.CreateSession(ctx, model.Session{ID: "s1", ClientID: "c1", RecruiterID: "r1", Status: model.SessionActive, StartTime: start, CreatedAt: start, UpdatedAt: start})

	end := start.Add(45 * time.Minute)
	completed := model.SessionCompleted
	sess, err := s.UpdateSession(ctx, "s1", store.SessionPatch{Status: &completed, EndTime: &end})
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if sess.Status != model.SessionCompleted || sess.EndTime == nil {
		t.Fatalf("session not completed: %+v", sess)
	}

	later := end.Add(time.Hour)
	if _, err := s.UpdateSession(ctx, "s1", store.SessionPatch{EndTime: &later}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second end = %v, want ErrConflict", err)
	}
	active := model.SessionActive
	if _, err := s.UpdateSession(ctx, "s1", store.SessionPatch{Status: &active}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("reopen = %v, want ErrConflict", err)
	}
}

func TestJobFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	jobs := []model.Job{
		{ID: "j1", ClientID: "c1", RecruiterID: "r1", CompanyName: "Globex", JobTitle: "Engineer", Status: model.StatusApplied, Date: "2026-08-28", CreatedAt: now, UpdatedAt: now},
		{ID: "j2", ClientID: "c1", RecruiterID: "r1", CompanyName: "Initech", JobTitle: "Analyst", Status: model.StatusNotFit, Date: "2026-08-30", CreatedAt: now, UpdatedAt: now},
		{ID: "j3", ClientID: "c2", RecruiterID: "r1", CompanyName: "Globex", JobTitle: "Manager", Status: model.StatusApplied, Date: "2026-08-29", CreatedAt: now, UpdatedAt: now},
	}
	for _, j := range jobs {
		if err := s.CreateJob(ctx, j); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	got, err := s.ListJobs(ctx, store.JobFilter{RecruiterID: "r1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != "j2" || got[1].ID != "j3" || got[2].ID != "j1" {
		t.Fatalf("order = %v, want [j2 j3 j1]", ids(got))
	}

	got, _ = s.ListJobs(ctx, store.JobFilter{Search: "glob"})
	if len(got) != 2 {
		t.Fatalf("search matched %d jobs, want 2", len(got))
	}

	got, _ = s.ListJobs(ctx, store.JobFilter{DateFrom: "2026-08-29", DateTo: "2026-08-30"})
	if len(got) != 2 {
		t.Fatalf("date range matched %d jobs, want 2", len(got))
	}

	n, _ := s.CountJobs(ctx, store.JobFilter{ClientID: "c1"})
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func ids(js []model.Job) []string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.ID
	}
	return out
}

func TestDuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	s.CreateClient(ctx, model.Client{ID: "c1", Email: "dup@x.com", CreatedAt: now, UpdatedAt: now})

	err := s.CreateClient(ctx, model.Client{ID: "c2", Email: "dup@x.com", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("create = %v, want ErrEmailExists", err)
	}

	s.CreateClient(ctx, model.Client{ID: "c3", Email: "other@x.com", CreatedAt: now, UpdatedAt: now})
	email := "dup@x.com"
	if _, err := s.UpdateClient(ctx, "c3", store.ClientPatch{Email: &email}); !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("update = %v, want ErrEmailExists", err)
	}
}

func TestEmailLookupIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	if err := s.CreateRecruiter(ctx, model.Recruiter{ID: "r1", Name: "Rita", Email: "Rita@Example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create recruiter: %v", err)
	}
	r, err := s.GetRecruiterByEmail(ctx, "rita@example.com")
	if err != nil {
		t.Fatalf("lowercase lookup: %v", err)
	}
	if r.Email != "rita@example.com" {
		t.Fatalf("stored email = %q, want lowercased", r.Email)
	}
	if _, err := s.GetRecruiterByEmail(ctx, "  RITA@EXAMPLE.COM "); err != nil {
		t.Fatalf("unnormalized lookup: %v", err)
	}

	err = s.CreateRecruiter(ctx, model.Recruiter{ID: "r2", Email: "RITA@example.com", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, store.ErrEmailExists) {
		t.Fatalf("mixed-case duplicate = %v, want ErrEmailExists", err)
	}

	s.CreateClient(ctx, model.Client{ID: "c1", Email: "Acme@X.com", CreatedAt: now, UpdatedAt: now})
	if _, err := s.GetClientByEmail(ctx, "acme@x.com"); err != nil {
		t.Fatalf("client lookup: %v", err)
	}
	s.CreateAdmin(ctx, model.Admin{ID: "a1", Email: "Boss@X.com", PasswordHash: "h", Role: "admin", CreatedAt: now, UpdatedAt: now})
	if _, err := s.GetAdminByEmail(ctx, "boss@x.com"); err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	now := time.Now().UTC()
	if err := s.CreateClient(ctx, model.Client{ID: "c1", Name: "Acme", Email: "c@x.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.CreateNotification(ctx, model.Notification{ID: "n1", ClientID: "c1", Type: model.NotifyJobAdded, Message: "m", CreatedAt: now})

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	c, err := s2.GetClientByID(ctx, "c1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if c.Name != "Acme" || c.PasswordHash != "hash" {
		t.Fatalf("client lost fields after reopen: %+v", c)
	}
	ns, _ := s2.ListNotifications(ctx, store.NotificationFilter{ClientID: "c1"})
	if len(ns) != 1 {
		t.Fatalf("notifications after reopen = %d, want 1", len(ns))
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	jobs := []model.Job{
		{ID: "j1", ClientID: "c1", RecruiterID: "r1", CompanyName: "Globex", Status: model.StatusApplied, Date: "2026-08-30", CreatedAt: now, UpdatedAt: now},
	}
	if err := s.UpsertJobs(ctx, jobs); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	jobs[0].CompanyName = "Initech"
	jobs = append(jobs, model.Job{ID: "j2", ClientID: "c1", RecruiterID: "r1", CompanyName: "Hooli", Status: model.StatusApplied, Date: "2026-08-31", CreatedAt: now, UpdatedAt: now})
	if err := s.UpsertJobs(ctx, jobs); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, _ := s.ListJobs(ctx, store.JobFilter{ClientID: "c1"})
	if len(got) != 2 {
		t.Fatalf("jobs = %d, want 2", len(got))
	}
	j1, err := s.GetJobByID(ctx, "j1")
	if err != nil {
		t.Fatalf("get j1: %v", err)
	}
	if j1.CompanyName != "Initech" {
		t.Fatalf("j1 company = %q, want replaced value", j1.CompanyName)
	}

	if err := s.UpsertRecruiters(ctx, []model.Recruiter{{ID: "r1", Name: "Rita", Email: "r@x.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}}); err != nil {
		t.Fatalf("upsert recruiters: %v", err)
	}
	r, _ := s.GetRecruiterByEmail(ctx, "r@x.com")
	if r.PasswordHash != "h" {
		t.Fatal("recruiter hash lost through upsert")
	}

	if err := s.UpsertNotifications(ctx, []model.Notification{{ID: "n1", ClientID: "c1", Type: model.NotifyJobAdded, CreatedAt: now}}); err != nil {
		t.Fatalf("upsert notifications: %v", err)
	}
	ns, _ := s.ListNotifications(ctx, store.NotificationFilter{ClientID: "c1"})
	if len(ns) != 1 {
		t.Fatalf("notifications = %d, want 1", len(ns))
	}
}

func TestMarkNotificationsRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()
	s.CreateNotification(ctx, model.Notification{ID: "n1", ClientID: "c1", Type: model.NotifySessionStarted, CreatedAt: now})
	s.CreateNotification(ctx, model.Notification{ID: "n2", ClientID: "c1", Type: model.NotifySessionEnded, CreatedAt: now.Add(time.Minute)})
	s.CreateNotification(ctx, model.Notification{ID: "n3", ClientID: "c2", Type: model.NotifyJobAdded, CreatedAt: now})

	if err := s.MarkNotificationRead(ctx, "n1", "c2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-client mark = %v, want ErrNotFound", err)
	}
	if err := s.MarkNotificationRead(ctx, "n1", "c1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread := false
	ns, _ := s.ListNotifications(ctx, store.NotificationFilter{ClientID: "c1", Read: &unread})
	if len(ns) != 1 || ns[0].ID != "n2" {
		t.Fatalf("unread = %v, want [n2]", ns)
	}

	if err := s.MarkAllNotificationsRead(ctx, "c1"); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	ns, _ = s.ListNotifications(ctx, store.NotificationFilter{ClientID: "c1", Read: &unread})
	if len(ns) != 0 {
		t.Fatalf("unread after mark all = %d, want 0", len(ns))
	}
	n3, _ := s.ListNotifications(ctx, store.NotificationFilter{ClientID: "c2"})
	if n3[0].Read {
		t.Fatal("other client's notification was marked read")
	}
}
