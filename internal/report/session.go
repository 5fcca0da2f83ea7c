package report

import (
	"strconv"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// Duration is the rendered length of a session.  Formatted reads
// "2h 5m", or just "45m" when under an hour.
type Duration struct {
	TotalMinutes int    `json:"totalMinutes"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Formatted    string `json:"formatted"`
}

// SessionDuration measures start to end, rounded to whole minutes.
func SessionDuration(start, end time.Time) Duration {
	total := int(end.Sub(start).Round(time.Minute) / time.Minute)
	if total < 0 {
		total = 0
	}
	d := Duration{
		TotalMinutes: total,
		Hours:        total / 60,
		Minutes:      total % 60,
	}
	if d.Hours > 0 {
		d.Formatted = strconv.Itoa(d.Hours) + "h " + strconv.Itoa(d.Minutes) + "m"
	} else {
		d.Formatted = strconv.Itoa(d.Minutes) + "m"
	}
	return d
}

// jobTime is the instant a job was logged.  CreatedAt when present,
// otherwise midnight of the application date.
func jobTime(j model.Job) time.Time {
	if !j.CreatedAt.IsZero() {
		return j.CreatedAt
	}
	return parseJobDate(j.Date)
}

// JobsDuring counts applications logged within the session bounds with
// the Applied or To be Applied status.
func JobsDuring(jobs []model.Job, start, end time.Time) int {
	n := 0
	for _, j := range jobs {
		if !model.CountsAsApplication(j.Status) {
			continue
		}
		t := jobTime(j)
		if t.IsZero() || t.Before(start) || t.After(end) {
			continue
		}
		n++
	}
	return n
}
