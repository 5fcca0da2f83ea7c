package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/queue"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

// SessionHandler serves application sessions for recruiters and the
// read-only session views of the client portal.
type SessionHandler struct {
	Store    store.Store
	Notifier *queue.Notifier
}

func NewSessionHandler(st store.Store, n *queue.Notifier) *SessionHandler {
	return &SessionHandler{Store: st, Notifier: n}
}

type sessionReq struct {
	ClientID string `json:"clientId"`
}

// Start opens a session for one of the recruiter's clients.  At most one
// active session may exist per client and recruiter.
func (h *SessionHandler) Start(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ClientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client ID is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	recruiterID := middleware.UserID(c)
	cl, err := h.Store.GetClientByID(ctx, req.ClientID)
	if err != nil || cl.AssignedRecruiter != recruiterID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Client not assigned to you"})
	}

	active, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID:    req.ClientID,
		RecruiterID: recruiterID,
		Status:      model.SessionActive,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	if len(active) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Session already active"})
	}

	now := time.Now().UTC()
	sess := model.Session{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		RecruiterID: recruiterID,
		Status:      model.SessionActive,
		StartTime:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Store.CreateSession(ctx, sess); err != nil {
		return serverError(c, "Server error")
	}

	h.Notifier.Notify(ctx, req.ClientID, model.NotifySessionStarted,
		"Your recruiter started applying to jobs")

	return c.JSON(http.StatusCreated, sess)
}

// End completes the recruiter's active session for a client.
func (h *SessionHandler) End(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ClientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client ID is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	active, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID:    req.ClientID,
		RecruiterID: middleware.UserID(c),
		Status:      model.SessionActive,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	if len(active) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No active session found"})
	}

	end := time.Now().UTC()
	status := model.SessionCompleted
	updated, err := h.Store.UpdateSession(ctx, active[0].ID, store.SessionPatch{
		Status:  &status,
		EndTime: &end,
	})
	if err != nil {
		return serverError(c, "Server error")
	}

	h.Notifier.Notify(ctx, req.ClientID, model.NotifySessionEnded,
		"Your recruiter finished the session")

	return c.JSON(http.StatusOK, updated)
}

// ActiveForClient returns the recruiter's active session for a client,
// or null when none exists.
func (h *SessionHandler) ActiveForClient(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	active, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID:    c.Param("clientId"),
		RecruiterID: middleware.UserID(c),
		Status:      model.SessionActive,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	if len(active) == 0 {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, active[0])
}

// sessionDetail decorates a session with the jobs applied during it and
// its duration.  A nil end means the session is still running and is
// measured up to now.
type sessionDetail struct {
	model.Session
	Recruiter   *recruiterInfo  `json:"recruiter,omitempty"`
	JobsApplied int             `json:"jobsApplied"`
	Duration    report.Duration `json:"duration"`
}

func detail(s model.Session, jobs []model.Job, now time.Time) sessionDetail {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return sessionDetail{
		Session:     s,
		JobsApplied: report.JobsDuring(jobs, s.StartTime, end),
		Duration:    report.SessionDuration(s.StartTime, end),
	}
}

// HistoryForClient lists the recruiter's completed sessions with a
// client, newest first, decorated with job counts and durations.
func (h *SessionHandler) HistoryForClient(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	clientID := c.Param("clientId")
	completed, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID:    clientID,
		RecruiterID: middleware.UserID(c),
		Status:      model.SessionCompleted,
		Limit:       limit,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: clientID})
	if err != nil {
		return serverError(c, "Server error")
	}

	now := time.Now()
	out := make([]sessionDetail, 0, len(completed))
	for _, s := range completed {
		if s.EndTime == nil {
			continue
		}
		out = append(out, detail(s, jobs, now))
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].EndTime.After(*out[k].EndTime)
	})
	return c.JSON(http.StatusOK, out)
}

// MyActive returns the logged-in client's active session with recruiter
// info, or null when the recruiter is not currently working.
func (h *SessionHandler) MyActive(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	clientID := middleware.UserID(c)
	active, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID: clientID,
		Status:   model.SessionActive,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	if len(active) == 0 {
		return c.JSON(http.StatusOK, nil)
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: clientID})
	if err != nil {
		return serverError(c, "Server error")
	}

	d := detail(active[0], jobs, time.Now())
	if rec, err := h.Store.GetRecruiterByID(ctx, active[0].RecruiterID); err == nil {
		d.Recruiter = &recruiterInfo{ID: rec.ID, Name: rec.Name, Email: rec.Email}
	}
	return c.JSON(http.StatusOK, d)
}

// MyHistory lists the logged-in client's completed sessions with
// recruiter info, job counts and durations.
func (h *SessionHandler) MyHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 10
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	clientID := middleware.UserID(c)
	completed, err := h.Store.ListSessions(ctx, store.SessionFilter{
		ClientID: clientID,
		Status:   model.SessionCompleted,
	})
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: clientID})
	if err != nil {
		return serverError(c, "Server error")
	}
	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	byID := make(map[string]model.Recruiter, len(recruiters))
	for _, r := range recruiters {
		byID[r.ID] = r
	}

	now := time.Now()
	out := make([]sessionDetail, 0, len(completed))
	for _, s := range completed {
		if s.EndTime == nil {
			continue
		}
		d := detail(s, jobs, now)
		if rec, ok := byID[s.RecruiterID]; ok {
			d.Recruiter = &recruiterInfo{ID: rec.ID, Name: rec.Name, Email: rec.Email}
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].EndTime.After(*out[k].EndTime)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return c.JSON(http.StatusOK, out)
}
