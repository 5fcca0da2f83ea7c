package report

import (
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// Period bounds an overview or report window.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days,omitempty"`
}

// ActivityOverview groups applications in a trailing N-day window by day,
// recruiter name and client name.
type ActivityOverview struct {
	TotalJobs         int            `json:"totalJobs"`
	DailyActivity     map[string]int `json:"dailyActivity"`
	RecruiterActivity map[string]int `json:"recruiterActivity"`
	ClientActivity    map[string]int `json:"clientActivity"`
	Period            Period         `json:"period"`
}

// nameLookup maps ids to display names, rendering "Unknown" for entities
// that were deleted after their jobs were logged.
func nameLookup[T any](items []T, id func(T) string, name func(T) string) func(string) string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[id(it)] = name(it)
	}
	return func(id string) string {
		if n, ok := m[id]; ok {
			return n
		}
		return "Unknown"
	}
}

func recruiterNames(rs []model.Recruiter) func(string) string {
	return nameLookup(rs, func(r model.Recruiter) string { return r.ID }, func(r model.Recruiter) string { return r.Name })
}

func clientNames(cs []model.Client) func(string) string {
	return nameLookup(cs, func(c model.Client) string { return c.ID }, func(c model.Client) string { return c.Name })
}

// Activity builds the overview for the trailing days window ending now.
func Activity(jobs []model.Job, recruiters []model.Recruiter, clients []model.Client, days int, now time.Time) ActivityOverview {
	if days <= 0 {
		days = 30
	}
	start := now.AddDate(0, 0, -days)
	rName := recruiterNames(recruiters)
	cName := clientNames(clients)

	out := ActivityOverview{
		DailyActivity:     map[string]int{},
		RecruiterActivity: map[string]int{},
		ClientActivity:    map[string]int{},
		Period: Period{
			Start: start.Format(dateLayout),
			End:   now.Format(dateLayout),
			Days:  days,
		},
	}
	for _, j := range jobs {
		if !model.CountsAsApplication(j.Status) {
			continue
		}
		d := parseJobDate(j.Date)
		if d.IsZero() || d.Before(start) || d.After(now) {
			continue
		}
		out.TotalJobs++
		out.DailyActivity[j.Date]++
		out.RecruiterActivity[rName(j.RecruiterID)]++
		out.ClientActivity[cName(j.ClientID)]++
	}
	return out
}
