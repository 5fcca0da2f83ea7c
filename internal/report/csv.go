package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
)

// quote wraps a CSV field in double quotes, doubling any embedded quote.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ClientsCSV renders the client roster export.  Unassigned clients show
// "Unassigned" in the recruiter column.
func ClientsCSV(clients []model.Client, recruiters []model.Recruiter) string {
	rName := recruiterNames(recruiters)
	rows := []string{"Name,Email,Assigned Recruiter,Daily Target,Monthly Target,Created At"}
	for _, c := range clients {
		recruiter := "Unassigned"
		if c.AssignedRecruiter != "" {
			recruiter = rName(c.AssignedRecruiter)
		}
		rows = append(rows, strings.Join([]string{
			quote(c.Name),
			quote(c.Email),
			quote(recruiter),
			strconv.Itoa(c.DailyTarget),
			strconv.Itoa(c.MonthlyTarget),
			csvTime(c.CreatedAt),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

// JobsCSV renders the job-level export with resolved client and
// recruiter names.
func JobsCSV(jobs []model.Job, clients []model.Client, recruiters []model.Recruiter) string {
	rName := recruiterNames(recruiters)
	cName := clientNames(clients)
	rows := []string{"Date,Company,Job Title,Location,Status,Client,Recruiter,Link,Notes"}
	for _, j := range jobs {
		rows = append(rows, strings.Join([]string{
			j.Date,
			quote(j.CompanyName),
			quote(j.JobTitle),
			quote(j.Location),
			j.Status,
			quote(cName(j.ClientID)),
			quote(rName(j.RecruiterID)),
			quote(j.JobLink),
			quote(j.Notes),
		}, ","))
	}
	return strings.Join(rows, "\n")
}
