// Package report implements the read-only aggregation layer: dashboard
// window counts, activity rollups, periodic reports, session durations,
// productivity insights and CSV export.  Functions take loaded entity
// slices and a reference time so results are deterministic and testable.
package report

import (
	"time"

	"github.com/msadki/applytrack/internal/model"
)

const dateLayout = "2006-01-02"

// DashboardStats is the window partition of application counts.  A job
// counts when its status is Applied or To be Applied.
type DashboardStats struct {
	TodayApplications int `json:"todayApplications"`
	WeekApplications  int `json:"weekApplications"`
	MonthApplications int `json:"monthApplications"`
	TotalApplications int `json:"totalApplications"`
}

// matchesToday is tolerant of both local and UTC date strings, since job
// dates may have been recorded under either convention.
func matchesToday(jobDate string, now time.Time) bool {
	return jobDate == now.Format(dateLayout) || jobDate == now.UTC().Format(dateLayout)
}

// parseJobDate returns the job's application date at midnight.  The zero
// time is returned for empty or malformed dates so range checks fail
// closed.
func parseJobDate(jobDate string) time.Time {
	t, err := time.Parse(dateLayout, jobDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Dashboard partitions jobs into calendar windows ending at now: exact
// date match for today, a rolling 7-day window for the week and a rolling
// 1-month window for the month.  Total counts across all time.
func Dashboard(jobs []model.Job, now time.Time) DashboardStats {
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)
	var s DashboardStats
	for _, j := range jobs {
		if !model.CountsAsApplication(j.Status) {
			continue
		}
		s.TotalApplications++
		if matchesToday(j.Date, now) {
			s.TodayApplications++
		}
		d := parseJobDate(j.Date)
		if d.IsZero() {
			continue
		}
		if !d.Before(weekStart) {
			s.WeekApplications++
		}
		if !d.Before(monthStart) {
			s.MonthApplications++
		}
	}
	return s
}

// CountToday counts jobs applied today with the Applied or To be Applied
// status, used for per-client and per-recruiter stat rows.
func CountToday(jobs []model.Job, now time.Time) int {
	n := 0
	for _, j := range jobs {
		if model.CountsAsApplication(j.Status) && matchesToday(j.Date, now) {
			n++
		}
	}
	return n
}

// CountTotal counts jobs with the Applied or To be Applied status across
// all time.
func CountTotal(jobs []model.Job) int {
	n := 0
	for _, j := range jobs {
		if model.CountsAsApplication(j.Status) {
			n++
		}
	}
	return n
}
