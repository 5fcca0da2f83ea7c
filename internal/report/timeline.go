package report

import (
	"sort"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// TimelineEntry is one row of the merged activity feed: a logged job or
// a completed session, newest first.
type TimelineEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	ClientID    string    `json:"clientId"`
	ClientName  string    `json:"clientName"`
	Duration    int       `json:"duration,omitempty"`
}

// Timeline merges jobs and completed sessions into a single feed sorted
// newest first and capped at limit entries.
func Timeline(jobs []model.Job, sessions []model.Session, clients []model.Client, limit int) []TimelineEntry {
	cName := clientNames(clients)
	entries := make([]TimelineEntry, 0, len(jobs)+len(sessions))

	for _, j := range jobs {
		desc := j.JobTitle
		if j.Location != "" {
			desc += " in " + j.Location
		}
		entries = append(entries, TimelineEntry{
			ID:          j.ID,
			Type:        "job",
			Action:      "Applied to " + j.CompanyName,
			Description: desc,
			Status:      j.Status,
			Date:        jobTime(j),
			ClientID:    j.ClientID,
			ClientName:  cName(j.ClientID),
		})
	}
	for _, s := range sessions {
		if s.Status != model.SessionCompleted || s.EndTime == nil {
			continue
		}
		entries = append(entries, TimelineEntry{
			ID:          s.ID,
			Type:        "session",
			Action:      "Completed session",
			Description: "Session with " + cName(s.ClientID),
			Status:      model.SessionCompleted,
			Date:        *s.EndTime,
			ClientID:    s.ClientID,
			ClientName:  cName(s.ClientID),
			Duration:    SessionDuration(s.StartTime, *s.EndTime).TotalMinutes,
		})
	}

	sort.SliceStable(entries, func(i, k int) bool { return entries[i].Date.After(entries[k].Date) })
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
