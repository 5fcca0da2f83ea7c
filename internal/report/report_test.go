package report

import (
	"strings"
	"testing"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

func date(now time.Time, daysAgo int) string {
	return now.AddDate(0, 0, -daysAgo).UTC().Format(dateLayout)
}

func appliedJob(clientID, recruiterID, jobDate string) model.Job {
	return model.Job{ClientID: clientID, RecruiterID: recruiterID, Status: model.StatusApplied, Date: jobDate}
}

func TestDashboardToday(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 1)),
		appliedJob("c1", "r1", date(now, 1)),
	}
	s := Dashboard(jobs, now)
	if s.TodayApplications != 3 {
		t.Fatalf("today = %d, want 3", s.TodayApplications)
	}
	if s.WeekApplications != 5 || s.TotalApplications != 5 {
		t.Fatalf("week = %d total = %d, want 5 and 5", s.WeekApplications, s.TotalApplications)
	}
}

func TestDashboardWindowsAndStatusFilter(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 0)),
		{ClientID: "c1", RecruiterID: "r1", Status: model.StatusToBeApplied, Date: date(now, 3)},
		{ClientID: "c1", RecruiterID: "r1", Status: model.StatusNotFit, Date: date(now, 0)},
		appliedJob("c1", "r1", date(now, 10)),
		appliedJob("c1", "r1", date(now, 45)),
	}
	s := Dashboard(jobs, now)
	if s.TodayApplications != 1 {
		t.Fatalf("today = %d, want 1 (Not Fit excluded)", s.TodayApplications)
	}
	if s.WeekApplications != 2 {
		t.Fatalf("week = %d, want 2", s.WeekApplications)
	}
	if s.MonthApplications != 3 {
		t.Fatalf("month = %d, want 3", s.MonthApplications)
	}
	if s.TotalApplications != 4 {
		t.Fatalf("total = %d, want 4", s.TotalApplications)
	}
}

func TestStreakConsecutive(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 1)),
		appliedJob("c1", "r1", date(now, 2)),
	}
	if got := Streak(jobs, now); got != 3 {
		t.Fatalf("streak = %d, want 3", got)
	}
}

func TestStreakGapAtYesterday(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 2)),
	}
	if got := Streak(jobs, now); got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}
}

func TestStreakIgnoresNonApplied(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		{ClientID: "c1", RecruiterID: "r1", Status: model.StatusToBeApplied, Date: date(now, 0)},
	}
	if got := Streak(jobs, now); got != 0 {
		t.Fatalf("streak = %d, want 0", got)
	}
}

func TestSessionDurationFormat(t *testing.T) {
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		minutes int
		want    string
	}{
		{105, "1h 45m"},
		{30, "30m"},
		{60, "1h 0m"},
		{0, "0m"},
	}
	for _, tc := range cases {
		d := SessionDuration(start, start.Add(time.Duration(tc.minutes)*time.Minute))
		if d.Formatted != tc.want {
			t.Errorf("%d minutes formatted = %q, want %q", tc.minutes, d.Formatted, tc.want)
		}
		if d.TotalMinutes != tc.minutes {
			t.Errorf("%d minutes total = %d", tc.minutes, d.TotalMinutes)
		}
	}
}

func TestJobsDuringSession(t *testing.T) {
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	jobs := []model.Job{
		{Status: model.StatusApplied, CreatedAt: start.Add(10 * time.Minute)},
		{Status: model.StatusToBeApplied, CreatedAt: start.Add(30 * time.Minute)},
		{Status: model.StatusNotFit, CreatedAt: start.Add(20 * time.Minute)},
		{Status: model.StatusApplied, CreatedAt: end.Add(time.Minute)},
		{Status: model.StatusApplied, Date: start.UTC().Format(dateLayout)},
	}
	if got := JobsDuring(jobs, start, end); got != 2 {
		t.Fatalf("jobs during = %d, want 2", got)
	}
}

func TestBadgeThresholds(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := make([]model.Job, 0, 100)
	for i := 0; i < 99; i++ {
		jobs = append(jobs, appliedJob("c1", "r1", date(now, 40)))
	}
	in := BuildInsights(jobs, nil, now)
	for _, b := range in.Badges {
		if b.ID == "century" {
			t.Fatal("Century Club awarded at 99 jobs")
		}
	}

	jobs = append(jobs, appliedJob("c1", "r1", date(now, 40)))
	in = BuildInsights(jobs, nil, now)
	found := false
	for _, b := range in.Badges {
		if b.ID == "century" {
			found = true
		}
	}
	if !found {
		t.Fatal("Century Club not awarded at 100 jobs")
	}
}

func TestStreakBadges(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{}
	for i := 0; i < 7; i++ {
		jobs = append(jobs, appliedJob("c1", "r1", date(now, i)))
	}
	in := BuildInsights(jobs, nil, now)
	if in.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", in.CurrentStreak)
	}
	ids := map[string]bool{}
	for _, b := range in.Badges {
		ids[b.ID] = true
	}
	if !ids["week_streak"] {
		t.Fatal("Week Warrior not awarded at streak 7")
	}
	if ids["month_streak"] {
		t.Fatal("Month Master awarded below streak 30")
	}
}

func TestAveragePerSessionRounding(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	s1End := now.Add(-time.Hour)
	s1Start := s1End.Add(-time.Hour)
	s2End := now.Add(-3 * time.Hour)
	s2Start := s2End.Add(-time.Hour)
	sessions := []model.Session{
		{Status: model.SessionCompleted, StartTime: s1Start, EndTime: &s1End},
		{Status: model.SessionCompleted, StartTime: s2Start, EndTime: &s2End},
	}
	jobs := []model.Job{
		{Status: model.StatusApplied, CreatedAt: s1Start.Add(time.Minute)},
		{Status: model.StatusApplied, CreatedAt: s1Start.Add(2 * time.Minute)},
		{Status: model.StatusApplied, CreatedAt: s1Start.Add(3 * time.Minute)},
		{Status: model.StatusApplied, CreatedAt: s2Start.Add(time.Minute)},
		{Status: model.StatusApplied, CreatedAt: s2Start.Add(2 * time.Minute)},
	}
	// (3 + 2) / 2 = 2.5, rounds to 3.
	if got := AveragePerSession(jobs, sessions, now); got != 3 {
		t.Fatalf("avg = %d, want 3", got)
	}
}

func TestAveragePerSessionCountsAnyStatus(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour)
	start := end.Add(-time.Hour)
	sessions := []model.Session{
		{Status: model.SessionCompleted, StartTime: start, EndTime: &end},
	}
	jobs := []model.Job{
		{Status: model.StatusApplied, CreatedAt: start.Add(time.Minute)},
		{Status: model.StatusNotFit, CreatedAt: start.Add(2 * time.Minute)},
		{Status: model.StatusDuplicate, CreatedAt: start.Add(3 * time.Minute)},
	}
	// Every job logged inside the session counts, whatever its status.
	if got := AveragePerSession(jobs, sessions, now); got != 3 {
		t.Fatalf("avg = %d, want 3", got)
	}
}

func TestBestHour(t *testing.T) {
	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		{CreatedAt: base.Add(9 * time.Hour)},
		{CreatedAt: base.Add(9*time.Hour + 30*time.Minute)},
		{CreatedAt: base.Add(14 * time.Hour)},
	}
	best := BestHour(jobs)
	if best == nil || best.Hour != 9 || best.Count != 2 {
		t.Fatalf("best = %+v, want hour 9 count 2", best)
	}
	if BestHour(nil) != nil {
		t.Fatal("best hour of no jobs should be nil")
	}
}

func TestWeeklyReportDailyBreakdown(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	recruiters := []model.Recruiter{{ID: "r1", Name: "Rita"}}
	clients := []model.Client{{ID: "c1", Name: "Acme"}}
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 0)),
		appliedJob("c1", "r1", date(now, 2)),
		appliedJob("c1", "r1", date(now, 10)),
	}
	rep := Weekly(jobs, recruiters, clients, now)
	if rep.TotalApplications != 3 {
		t.Fatalf("total = %d, want 3", rep.TotalApplications)
	}
	if rep.Breakdown[date(now, 0)] != 2 || rep.Breakdown[date(now, 2)] != 1 {
		t.Fatalf("breakdown = %v", rep.Breakdown)
	}
	if rep.ByRecruiter["Rita"] != 3 || rep.ByClient["Acme"] != 3 {
		t.Fatalf("byRecruiter = %v byClient = %v", rep.ByRecruiter, rep.ByClient)
	}
}

func TestMonthlyReportWeekBuckets(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 1)),  // last week of the period
		appliedJob("c1", "r1", date(now, 28)), // first week
	}
	rep := Monthly(jobs, nil, nil, now)
	if rep.TotalApplications != 2 {
		t.Fatalf("total = %d, want 2", rep.TotalApplications)
	}
	if rep.Breakdown["Week 1"] != 1 {
		t.Fatalf("breakdown = %v, want Week 1 -> 1", rep.Breakdown)
	}
	if rep.ByRecruiter["Unknown"] != 2 {
		t.Fatalf("deleted recruiter should group under Unknown: %v", rep.ByRecruiter)
	}
}

func TestDailyReportGroupsAllStatuses(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	today := date(now, 0)
	jobs := []model.Job{
		appliedJob("c1", "r1", today),
		{ClientID: "c1", RecruiterID: "r1", Status: model.StatusNotFit, Date: today},
	}
	rep := Daily(jobs, []model.Recruiter{{ID: "r1", Name: "Rita"}}, []model.Client{{ID: "c1", Name: "Acme"}}, today)
	if rep.TotalApplications != 1 {
		t.Fatalf("total = %d, want 1", rep.TotalApplications)
	}
	if rep.ByStatus[model.StatusNotFit] != 1 || rep.ByStatus[model.StatusApplied] != 1 {
		t.Fatalf("byStatus = %v", rep.ByStatus)
	}
	if rep.ByRecruiter["Rita"] != 2 {
		t.Fatalf("byRecruiter = %v", rep.ByRecruiter)
	}
}

func TestActivityWindowDefault(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	jobs := []model.Job{
		appliedJob("c1", "r1", date(now, 5)),
		appliedJob("c1", "r1", date(now, 45)),
	}
	ov := Activity(jobs, nil, nil, 0, now)
	if ov.TotalJobs != 1 {
		t.Fatalf("total = %d, want 1 (45-day-old job outside default 30)", ov.TotalJobs)
	}
	if ov.Period.Days != 30 {
		t.Fatalf("days = %d, want 30", ov.Period.Days)
	}
}

func TestTimelineOrderAndLimit(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour)
	start := end.Add(-30 * time.Minute)
	jobs := []model.Job{
		{ID: "j1", ClientID: "c1", CompanyName: "Globex", JobTitle: "Engineer", Location: "Berlin", Status: model.StatusApplied, CreatedAt: now.Add(-10 * time.Minute)},
		{ID: "j2", ClientID: "c1", CompanyName: "Initech", JobTitle: "Analyst", Status: model.StatusApplied, CreatedAt: now.Add(-3 * time.Hour)},
	}
	sessions := []model.Session{
		{ID: "s1", ClientID: "c1", Status: model.SessionCompleted, StartTime: start, EndTime: &end},
		{ID: "s2", ClientID: "c1", Status: model.SessionActive, StartTime: now},
	}
	clients := []model.Client{{ID: "c1", Name: "Acme"}}

	entries := Timeline(jobs, sessions, clients, 0)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (active session excluded)", len(entries))
	}
	if entries[0].ID != "j1" || entries[1].ID != "s1" || entries[2].ID != "j2" {
		t.Fatalf("order = %s %s %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if entries[0].Description != "Engineer in Berlin" {
		t.Fatalf("description = %q", entries[0].Description)
	}
	if entries[1].Duration != 30 {
		t.Fatalf("session duration = %d, want 30", entries[1].Duration)
	}

	limited := Timeline(jobs, sessions, clients, 2)
	if len(limited) != 2 {
		t.Fatalf("limited = %d, want 2", len(limited))
	}
}

func TestAnalyticsClientPerformance(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	today := date(now, 0)
	clients := []model.Client{
		{ID: "c1", Name: "Acme", DailyTarget: 4},
		{ID: "c2", Name: "Beta", DailyTarget: 0},
	}
	jobs := []model.Job{
		appliedJob("c1", "r1", today),
		appliedJob("c1", "r1", today),
		appliedJob("c1", "r1", date(now, 3)),
		appliedJob("c2", "r1", today),
	}
	a := BuildAnalytics(jobs, clients, nil, 30, now)
	if len(a.ClientPerformance) != 2 || a.ClientPerformance[0].ClientID != "c1" {
		t.Fatalf("performance = %+v", a.ClientPerformance)
	}
	if a.ClientPerformance[0].CompletionRate != 50 {
		t.Fatalf("completion = %v, want 50", a.ClientPerformance[0].CompletionRate)
	}
	if a.ClientPerformance[1].CompletionRate != 0 {
		t.Fatalf("zero-target completion = %v, want 0", a.ClientPerformance[1].CompletionRate)
	}
	if len(a.DailyTrends) != 30 {
		t.Fatalf("trends = %d days, want 30", len(a.DailyTrends))
	}
	last := a.DailyTrends[len(a.DailyTrends)-1]
	if last.Date != today || last.Count != 3 {
		t.Fatalf("last trend = %+v, want today count 3", last)
	}
}

func TestClientsCSV(t *testing.T) {
	clients := []model.Client{
		{Name: "Acme", Email: "acme@x.com", AssignedRecruiter: "r1", DailyTarget: 5, MonthlyTarget: 100},
		{Name: "Beta", Email: "beta@x.com"},
	}
	recruiters := []model.Recruiter{{ID: "r1", Name: "Rita"}}
	out := ClientsCSV(clients, recruiters)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "Name,Email,Assigned Recruiter,Daily Target,Monthly Target,Created At" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Rita"`) {
		t.Fatalf("row = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"Unassigned"`) {
		t.Fatalf("row = %q", lines[2])
	}
}

func TestJobsCSVQuoteDoubling(t *testing.T) {
	jobs := []model.Job{
		{ClientID: "c1", RecruiterID: "r1", Date: "2026-08-30", CompanyName: "Globex", JobTitle: "Engineer", Status: model.StatusApplied, Notes: `He said "ok"`},
	}
	out := JobsCSV(jobs, []model.Client{{ID: "c1", Name: "Acme"}}, nil)
	if !strings.Contains(out, `"He said ""ok"""`) {
		t.Fatalf("notes not quoted: %q", out)
	}
	if !strings.Contains(out, `"Unknown"`) {
		t.Fatalf("missing recruiter should render Unknown: %q", out)
	}
}
