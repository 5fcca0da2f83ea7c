package report

import (
	"strconv"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// DailyReport is the per-day application breakdown.  Jobs of every
// status count toward the by-recruiter/by-client/by-status groups;
// TotalApplications applies the usual Applied / To be Applied filter.
type DailyReport struct {
	Date              string         `json:"date"`
	TotalApplications int            `json:"totalApplications"`
	ByRecruiter       map[string]int `json:"byRecruiter"`
	ByClient          map[string]int `json:"byClient"`
	ByStatus          map[string]int `json:"byStatus"`
}

// PeriodReport is the weekly or monthly rollup.  Breakdown maps day
// (weekly) or "Week N" buckets (monthly) to counts.
type PeriodReport struct {
	Period            Period         `json:"period"`
	TotalApplications int            `json:"totalApplications"`
	ByRecruiter       map[string]int `json:"byRecruiter"`
	ByClient          map[string]int `json:"byClient"`
	Breakdown         map[string]int `json:"-"`
}

// Daily builds the report for one calendar day.
func Daily(jobs []model.Job, recruiters []model.Recruiter, clients []model.Client, date string) DailyReport {
	rName := recruiterNames(recruiters)
	cName := clientNames(clients)
	out := DailyReport{
		Date:        date,
		ByRecruiter: map[string]int{},
		ByClient:    map[string]int{},
		ByStatus:    map[string]int{},
	}
	for _, j := range jobs {
		if j.Date != date {
			continue
		}
		if model.CountsAsApplication(j.Status) {
			out.TotalApplications++
		}
		out.ByRecruiter[rName(j.RecruiterID)]++
		out.ByClient[cName(j.ClientID)]++
		out.ByStatus[j.Status]++
	}
	return out
}

// Weekly builds the trailing 7-day report ending now with a per-day
// breakdown.
func Weekly(jobs []model.Job, recruiters []model.Recruiter, clients []model.Client, now time.Time) PeriodReport {
	start := now.AddDate(0, 0, -7)
	out := periodReport(jobs, recruiters, clients, start, now, func(d time.Time, date string) string {
		return date
	})
	return out
}

// Monthly builds the trailing 1-month report ending now.  The breakdown
// buckets days into "Week N" where N is the week index within the period
// counted from its start.
func Monthly(jobs []model.Job, recruiters []model.Recruiter, clients []model.Client, now time.Time) PeriodReport {
	start := now.AddDate(0, -1, 0)
	return periodReport(jobs, recruiters, clients, start, now, func(d time.Time, _ string) string {
		week := int(d.Sub(start).Hours() / (24 * 7))
		return "Week " + strconv.Itoa(week+1)
	})
}

func periodReport(jobs []model.Job, recruiters []model.Recruiter, clients []model.Client, start, end time.Time, bucket func(time.Time, string) string) PeriodReport {
	rName := recruiterNames(recruiters)
	cName := clientNames(clients)
	out := PeriodReport{
		Period: Period{
			Start: start.Format(dateLayout),
			End:   end.Format(dateLayout),
		},
		ByRecruiter: map[string]int{},
		ByClient:    map[string]int{},
		Breakdown:   map[string]int{},
	}
	for _, j := range jobs {
		if !model.CountsAsApplication(j.Status) {
			continue
		}
		d := parseJobDate(j.Date)
		if d.IsZero() || d.Before(start) || d.After(end) {
			continue
		}
		out.TotalApplications++
		out.ByRecruiter[rName(j.RecruiterID)]++
		out.ByClient[cName(j.ClientID)]++
		out.Breakdown[bucket(d, j.Date)]++
	}
	return out
}
