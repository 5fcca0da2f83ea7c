package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

// DailyReport rolls up one calendar day, defaulting to today.
func (h *AdminHandler) DailyReport(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}

	return c.JSON(http.StatusOK, report.Daily(jobs, recruiters, clients, date))
}

// WeeklyReport rolls up the trailing 7 days with a per-day breakdown.
func (h *AdminHandler) WeeklyReport(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}

	r := report.Weekly(jobs, recruiters, clients, time.Now())
	return c.JSON(http.StatusOK, echo.Map{
		"period":            r.Period,
		"totalApplications": r.TotalApplications,
		"byRecruiter":       r.ByRecruiter,
		"byClient":          r.ByClient,
		"dailyBreakdown":    r.Breakdown,
	})
}

// MonthlyReport rolls up the trailing month bucketed into weeks.
func (h *AdminHandler) MonthlyReport(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}

	r := report.Monthly(jobs, recruiters, clients, time.Now())
	return c.JSON(http.StatusOK, echo.Map{
		"period":            r.Period,
		"totalApplications": r.TotalApplications,
		"byRecruiter":       r.ByRecruiter,
		"byClient":          r.ByClient,
		"weeklyBreakdown":   r.Breakdown,
	})
}

// ExportClients streams every client as a CSV attachment.
func (h *AdminHandler) ExportClients(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=clients.csv")
	return c.Blob(http.StatusOK, "text/csv", []byte(report.ClientsCSV(clients, recruiters)))
}

// ExportJobs streams jobs as a CSV attachment, honoring the optional
// client, recruiter and date-range filters.
func (h *AdminHandler) ExportJobs(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{
		ClientID:    c.QueryParam("clientId"),
		RecruiterID: c.QueryParam("recruiterId"),
		DateFrom:    c.QueryParam("dateFrom"),
		DateTo:      c.QueryParam("dateTo"),
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=jobs.csv")
	return c.Blob(http.StatusOK, "text/csv", []byte(report.JobsCSV(jobs, clients, recruiters)))
}
