package report

import (
	"sort"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// DailyTrend is one day of the applied-per-day chart series.
type DailyTrend struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// ClientPerformance summarizes one client's applied totals against its
// daily target.
type ClientPerformance struct {
	ClientID       string  `json:"clientId"`
	ClientName     string  `json:"clientName"`
	Total          int     `json:"total"`
	Today          int     `json:"today"`
	Target         int     `json:"target"`
	CompletionRate float64 `json:"completionRate"`
}

// SessionStats aggregates a recruiter's session counts and the average
// completed-session length in minutes.
type SessionStats struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	Completed       int `json:"completed"`
	AverageDuration int `json:"averageDuration"`
}

// Analytics is the chart payload for the recruiter analytics view.
type Analytics struct {
	DailyTrends        []DailyTrend        `json:"dailyTrends"`
	StatusDistribution map[string]int      `json:"statusDistribution"`
	ClientPerformance  []ClientPerformance `json:"clientPerformance"`
	SessionStats       SessionStats        `json:"sessionStats"`
	Period             int                 `json:"period"`
}

// BuildAnalytics computes the analytics payload over a recruiter's jobs,
// assigned clients and sessions for a trailing days window ending now.
func BuildAnalytics(jobs []model.Job, assigned []model.Client, sessions []model.Session, days int, now time.Time) Analytics {
	if days <= 0 {
		days = 30
	}

	trends := make([]DailyTrend, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dateStr := day.UTC().Format(dateLayout)
		count := 0
		for _, j := range jobs {
			if j.Date == dateStr && j.Status == model.StatusApplied {
				count++
			}
		}
		trends = append(trends, DailyTrend{
			Date:  dateStr,
			Count: count,
			Label: day.Format("Jan 2"),
		})
	}

	status := map[string]int{
		model.StatusApplied:   0,
		model.StatusNotFit:    0,
		model.StatusDuplicate: 0,
	}
	for _, j := range jobs {
		if _, ok := status[j.Status]; ok {
			status[j.Status]++
		}
	}

	today := now.UTC().Format(dateLayout)
	perf := make([]ClientPerformance, 0, len(assigned))
	for _, c := range assigned {
		total, todayCount := 0, 0
		for _, j := range jobs {
			if j.ClientID != c.ID || j.Status != model.StatusApplied {
				continue
			}
			total++
			if j.Date == today {
				todayCount++
			}
		}
		rate := 0.0
		if c.DailyTarget > 0 {
			rate = float64(todayCount) / float64(c.DailyTarget) * 100
		}
		perf = append(perf, ClientPerformance{
			ClientID:       c.ID,
			ClientName:     c.Name,
			Total:          total,
			Today:          todayCount,
			Target:         c.DailyTarget,
			CompletionRate: rate,
		})
	}
	sort.SliceStable(perf, func(i, k int) bool { return perf[i].Total > perf[k].Total })

	stats := SessionStats{Total: len(sessions)}
	totalMinutes, completed := 0, 0
	for _, s := range sessions {
		switch s.Status {
		case model.SessionActive:
			stats.Active++
		case model.SessionCompleted:
			stats.Completed++
			if s.EndTime != nil {
				totalMinutes += SessionDuration(s.StartTime, *s.EndTime).TotalMinutes
				completed++
			}
		}
	}
	if completed > 0 {
		stats.AverageDuration = totalMinutes / completed
	}

	return Analytics{
		DailyTrends:        trends,
		StatusDistribution: status,
		ClientPerformance:  perf,
		SessionStats:       stats,
		Period:             days,
	}
}
