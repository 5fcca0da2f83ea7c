package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

type namedJob struct {
	model.Job
	ClientName    string `json:"clientName"`
	RecruiterName string `json:"recruiterName"`
}

// ListJobs pages through all jobs with filtering by client, recruiter,
// status, free-text search and date range, decorated with display names.
func (h *AdminHandler) ListJobs(c echo.Context) error {
	page, limit := pageParams(c, 50)

	f := store.JobFilter{
		ClientID:    c.QueryParam("clientId"),
		RecruiterID: c.QueryParam("recruiterId"),
		Status:      c.QueryParam("status"),
		Search:      c.QueryParam("search"),
		DateFrom:    c.QueryParam("dateFrom"),
		DateTo:      c.QueryParam("dateTo"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, f)
	if err != nil {
		return serverError(c, "Server error")
	}
	f.Limit, f.Offset = 0, 0
	total, err := h.Store.CountJobs(ctx, f)
	if err != nil {
		return serverError(c, "Server error")
	}

	clientName, recruiterName, ok := h.nameMaps(c)
	if !ok {
		return nil
	}

	rows := make([]namedJob, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, namedJob{
			Job:           j,
			ClientName:    clientName(j.ClientID),
			RecruiterName: recruiterName(j.RecruiterID),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"jobs":       rows,
		"pagination": paginate(page, limit, total),
	})
}

// nameMaps builds id-to-name lookups that render "Unknown" for deleted
// accounts.  On failure the error response has already been written and
// ok is false.
func (h *AdminHandler) nameMaps(c echo.Context) (clientName, recruiterName func(string) string, ok bool) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		_ = serverError(c, "Server error")
		return nil, nil, false
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		_ = serverError(c, "Server error")
		return nil, nil, false
	}

	cm := make(map[string]string, len(clients))
	for _, cl := range clients {
		cm[cl.ID] = cl.Name
	}
	rm := make(map[string]string, len(recruiters))
	for _, r := range recruiters {
		rm[r.ID] = r.Name
	}
	lookup := func(m map[string]string) func(string) string {
		return func(id string) string {
			if n, ok := m[id]; ok {
				return n
			}
			return "Unknown"
		}
	}
	return lookup(cm), lookup(rm), true
}

// UpdateJob lets an admin edit any job regardless of ownership.
func (h *AdminHandler) UpdateJob(c echo.Context) error {
	var req jobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(false); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	patch := store.JobPatch{Status: req.Status}
	if req.CompanyName != nil {
		v := strings.TrimSpace(*req.CompanyName)
		patch.CompanyName = &v
	}
	if req.JobTitle != nil {
		v := strings.TrimSpace(*req.JobTitle)
		patch.JobTitle = &v
	}
	if req.JobLink != nil {
		v := strings.TrimSpace(*req.JobLink)
		patch.JobLink = &v
	}
	if req.Location != nil {
		v := strings.TrimSpace(*req.Location)
		patch.Location = &v
	}
	if req.Notes != nil {
		v := strings.TrimSpace(*req.Notes)
		patch.Notes = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	job, err := h.Store.UpdateJob(ctx, c.Param("jobId"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, job)
}

// DeleteJob lets an admin delete any job.
func (h *AdminHandler) DeleteJob(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.DeleteJob(ctx, c.Param("jobId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Job deleted successfully"})
}

type namedSession struct {
	model.Session
	ClientName    string `json:"clientName"`
	RecruiterName string `json:"recruiterName"`
}

// ListSessions returns all sessions with optional status, client and
// recruiter filters, decorated with display names.
func (h *AdminHandler) ListSessions(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID:    c.QueryParam("clientId"),
		RecruiterID: c.QueryParam("recruiterId"),
		Status:      c.QueryParam("status"),
	})
	if err != nil {
		return serverError(c, "Server error")
	}

	clientName, recruiterName, ok := h.nameMaps(c)
	if !ok {
		return nil
	}

	rows := make([]namedSession, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, namedSession{
			Session:       s,
			ClientName:    clientName(s.ClientID),
			RecruiterName: recruiterName(s.RecruiterID),
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// EndSession force-completes any session, for when a recruiter left one
// hanging.
func (h *AdminHandler) EndSession(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	end := time.Now().UTC()
	status := model.SessionCompleted
	_, err := h.Store.UpdateSession(ctx, c.Param("sessionId"), store.SessionPatch{
		Status:  &status,
		EndTime: &end,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
		}
		if errors.Is(err, store.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Session already completed"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Session ended successfully"})
}

// JobActivity summarizes application volume over a trailing ?days window
// grouped by day, recruiter and client.
func (h *AdminHandler) JobActivity(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	if days <= 0 {
		days = 30
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

	return c.JSON(http.StatusOK, report.Activity(jobs, recruiters, clients, days, time.Now()))
}
