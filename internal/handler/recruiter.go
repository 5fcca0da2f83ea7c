package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

// RecruiterHandler serves the recruiter self-service surface.
type RecruiterHandler struct {
	Store store.Store
}

func NewRecruiterHandler(st store.Store) *RecruiterHandler {
	return &RecruiterHandler{Store: st}
}

// loadRecruiter resolves the authenticated recruiter.  On failure the
// error response has already been written and ok is false.  A token whose
// id no longer matches but whose email still exists means the account was
// re-created; the caller must log in again to pick up the new id.
func (h *RecruiterHandler) loadRecruiter(ctx context.Context, c echo.Context) (model.Recruiter, bool) {
	rec, err := h.Store.GetRecruiterByID(ctx, middleware.UserID(c))
	if err == nil {
		return rec, true
	}
	if !errors.Is(err, store.ErrNotFound) {
		_ = serverError(c, "Server error")
		return model.Recruiter{}, false
	}
	if email, _ := c.Get(middleware.CtxEmail).(string); email != "" {
		if _, err := h.Store.GetRecruiterByEmail(ctx, email); err == nil {
			_ = c.JSON(http.StatusUnauthorized, echo.Map{
				"error":   "Session invalid",
				"message": "Please logout and login again.",
			})
			return model.Recruiter{}, false
		}
	}
	_ = c.JSON(http.StatusNotFound, echo.Map{
		"error":   "Recruiter not found",
		"message": "Your account may have been deleted. Please contact administrator or login again.",
	})
	return model.Recruiter{}, false
}

// assignedClients returns the clients currently pointing at the recruiter.
func (h *RecruiterHandler) assignedClients(ctx context.Context, recruiterID string) ([]model.Client, error) {
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Client, 0, len(clients))
	for _, cl := range clients {
		if cl.AssignedRecruiter == recruiterID {
			out = append(out, cl)
		}
	}
	return out, nil
}

// clientJobs gathers every job belonging to the given clients.
func (h *RecruiterHandler) clientJobs(ctx context.Context, clients []model.Client) ([]model.Job, error) {
	var jobs []model.Job
	for _, cl := range clients {
		js, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: cl.ID})
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, js...)
	}
	return jobs, nil
}

// Me returns the recruiter's own profile.
func (h *RecruiterHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, rec)
}

type clientWithStats struct {
	model.Client
	TodayApplications int `json:"todayApplications"`
	TotalApplications int `json:"totalApplications"`
}

// MeClients lists the recruiter's assigned clients with per-client
// application counts for today and all time.
func (h *RecruiterHandler) MeClients(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	assigned, err := h.assignedClients(ctx, rec.ID)
	if err != nil {
		return serverError(c, "Server error")
	}

	now := time.Now()
	out := make([]clientWithStats, 0, len(assigned))
	for _, cl := range assigned {
		jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: cl.ID})
		if err != nil {
			return serverError(c, "Server error")
		}
		out = append(out, clientWithStats{
			Client:            cl,
			TodayApplications: report.CountToday(jobs, now),
			TotalApplications: report.CountTotal(jobs),
		})
	}
	return c.JSON(http.StatusOK, out)
}

type dashboardClient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DailyTarget       int    `json:"dailyTarget"`
	TodayApplications int    `json:"todayApplications"`
}

// MeDashboard aggregates the recruiter's application counts over rolling
// windows plus a per-client summary for the day view.
func (h *RecruiterHandler) MeDashboard(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	assigned, err := h.assignedClients(ctx, rec.ID)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.clientJobs(ctx, assigned)
	if err != nil {
		return serverError(c, "Server error")
	}

	now := time.Now()
	stats := report.Dashboard(jobs, now)

	perClient := make([]dashboardClient, 0, len(assigned))
	for _, cl := range assigned {
		count := 0
		for _, j := range jobs {
			if j.ClientID == cl.ID && j.Date == now.Format("2006-01-02") && j.Status == model.StatusApplied {
				count++
			}
		}
		perClient = append(perClient, dashboardClient{
			ID:                cl.ID,
			Name:              cl.Name,
			DailyTarget:       cl.DailyTarget,
			TodayApplications: count,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"todayApplications": stats.TodayApplications,
		"weekApplications":  stats.WeekApplications,
		"monthApplications": stats.MonthApplications,
		"assignedClients":   len(assigned),
		"clients":           perClient,
	})
}

// MeAnalytics returns chart data for a trailing ?period window in days.
func (h *RecruiterHandler) MeAnalytics(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("period"))
	if days <= 0 {
		days = 30
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	assigned, err := h.assignedClients(ctx, rec.ID)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.clientJobs(ctx, assigned)
	if err != nil {
		return serverError(c, "Server error")
	}
	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{RecruiterID: rec.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	return c.JSON(http.StatusOK, report.BuildAnalytics(jobs, assigned, sessions, days, time.Now()))
}

// MeTimeline merges the recruiter's jobs and completed sessions into a
// single feed, newest first, capped at ?limit entries.
func (h *RecruiterHandler) MeTimeline(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	assigned, err := h.assignedClients(ctx, rec.ID)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.clientJobs(ctx, assigned)
	if err != nil {
		return serverError(c, "Server error")
	}
	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{RecruiterID: rec.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	return c.JSON(http.StatusOK, report.Timeline(jobs, sessions, assigned, limit))
}

// MeInsights returns productivity insights: best hour, streak, per-session
// average and achievement badges.
func (h *RecruiterHandler) MeInsights(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, ok := h.loadRecruiter(ctx, c)
	if !ok {
		return nil
	}
	assigned, err := h.assignedClients(ctx, rec.ID)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.clientJobs(ctx, assigned)
	if err != nil {
		return serverError(c, "Server error")
	}
	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{RecruiterID: rec.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	return c.JSON(http.StatusOK, report.BuildInsights(jobs, sessions, time.Now()))
}
