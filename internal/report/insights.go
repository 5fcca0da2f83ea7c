package report

import (
	"math"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// HourCount is the best-performing hour-of-day bucket.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Badge is an achievement unlocked by lifetime or streak thresholds.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Insights is the productivity summary for one recruiter.
type Insights struct {
	BestPerformingHour *HourCount `json:"bestPerformingHour"`
	CurrentStreak      int        `json:"currentStreak"`
	AveragePerSession  int        `json:"averagePerSession"`
	TotalSessions      int        `json:"totalSessions"`
	TotalJobs          int        `json:"totalJobs"`
	Badges             []Badge    `json:"badges"`
}

// BestHour buckets job creation timestamps by hour of day and returns
// the busiest bucket, nil when no job has a creation timestamp.
func BestHour(jobs []model.Job) *HourCount {
	counts := map[int]int{}
	for _, j := range jobs {
		if j.CreatedAt.IsZero() {
			continue
		}
		counts[j.CreatedAt.Hour()]++
	}
	var best *HourCount
	for h, n := range counts {
		if best == nil || n > best.Count || (n == best.Count && h < best.Hour) {
			best = &HourCount{Hour: h, Count: n}
		}
	}
	return best
}

// Streak walks backward day by day from today, counting consecutive days
// with at least one Applied job, and stops at the first gap.
func Streak(jobs []model.Job, now time.Time) int {
	applied := map[string]bool{}
	for _, j := range jobs {
		if j.Status == model.StatusApplied {
			applied[j.Date] = true
		}
	}
	streak := 0
	day := now
	for {
		if !applied[day.Format(dateLayout)] && !applied[day.UTC().Format(dateLayout)] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// AveragePerSession computes jobs logged during each completed session
// and returns the mean rounded to the nearest integer.  Jobs of any
// status count here; an open-ended comparison is used for sessions whose
// end time is missing.
func AveragePerSession(jobs []model.Job, sessions []model.Session, now time.Time) int {
	total, n := 0, 0
	for _, s := range sessions {
		if s.Status != model.SessionCompleted {
			continue
		}
		end := now
		if s.EndTime != nil {
			end = *s.EndTime
		}
		count := 0
		for _, j := range jobs {
			t := jobTime(j)
			if !t.IsZero() && !t.Before(s.StartTime) && !t.After(end) {
				count++
			}
		}
		total += count
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

// Badge thresholds.
const (
	centuryClubJobs     = 100
	weekWarriorStreak   = 7
	monthMasterStreak   = 30
	productivityProRate = 10
)

// BuildInsights assembles the full productivity summary from a
// recruiter's jobs and sessions.
func BuildInsights(jobs []model.Job, sessions []model.Session, now time.Time) Insights {
	appliedTotal := 0
	for _, j := range jobs {
		if j.Status == model.StatusApplied {
			appliedTotal++
		}
	}
	streak := Streak(jobs, now)
	avg := AveragePerSession(jobs, sessions, now)

	badges := []Badge{}
	if appliedTotal >= centuryClubJobs {
		badges = append(badges, Badge{ID: "century", Name: "Century Club", Description: "Applied to 100+ jobs"})
	}
	if streak >= weekWarriorStreak {
		badges = append(badges, Badge{ID: "week_streak", Name: "Week Warrior", Description: "7+ day streak"})
	}
	if streak >= monthMasterStreak {
		badges = append(badges, Badge{ID: "month_streak", Name: "Month Master", Description: "30+ day streak"})
	}
	if avg >= productivityProRate {
		badges = append(badges, Badge{ID: "productive", Name: "Productivity Pro", Description: "10+ jobs per session"})
	}

	return Insights{
		BestPerformingHour: BestHour(jobs),
		CurrentStreak:      streak,
		AveragePerSession:  avg,
		TotalSessions:      len(sessions),
		TotalJobs:          appliedTotal,
		Badges:             badges,
	}
}
