package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

// ClientHandler serves the client portal plus the recruiter-facing
// client detail endpoints.
type ClientHandler struct {
	Store store.Store
}

func NewClientHandler(st store.Store) *ClientHandler {
	return &ClientHandler{Store: st}
}

// Me returns the logged-in client's own profile.
func (h *ClientHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cl, err := h.Store.GetClientByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, cl)
}

type recruiterInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MeDashboard summarizes the client's own application activity, assigned
// recruiter and ten most recent applications.
func (h *ClientHandler) MeDashboard(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cl, err := h.Store.GetClientByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: cl.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	stats := report.Dashboard(jobs, time.Now())

	var rInfo *recruiterInfo
	if cl.AssignedRecruiter != "" {
		if rec, err := h.Store.GetRecruiterByID(ctx, cl.AssignedRecruiter); err == nil {
			rInfo = &recruiterInfo{ID: rec.ID, Name: rec.Name, Email: rec.Email}
		}
	}

	recent := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if model.CountsAsApplication(j.Status) {
			recent = append(recent, j)
		}
	}
	sort.SliceStable(recent, func(i, k int) bool { return recent[i].Date > recent[k].Date })
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": echo.Map{
			"todayApplications": stats.TodayApplications,
			"weekApplications":  stats.WeekApplications,
			"monthApplications": stats.MonthApplications,
			"totalApplications": stats.TotalApplications,
			"dailyTarget":       cl.DailyTarget,
			"monthlyTarget":     cl.MonthlyTarget,
		},
		"recruiter":  rInfo,
		"recentJobs": recent,
	})
}

// Get returns client details for recruiters.  The job list is left empty
// on purpose; callers page through jobs via the jobs endpoints.
func (h *ClientHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cl, err := h.Store.GetClientByID(ctx, c.Param("clientId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{ClientID: cl.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	now := time.Now()
	return c.JSON(http.StatusOK, echo.Map{
		"id":                cl.ID,
		"name":              cl.Name,
		"email":             cl.Email,
		"assignedRecruiter": cl.AssignedRecruiter,
		"monthlyTarget":     cl.MonthlyTarget,
		"dailyTarget":       cl.DailyTarget,
		"instructions":      cl.Instructions,
		"createdAt":         cl.CreatedAt,
		"updatedAt":         cl.UpdatedAt,
		"jobs":              []model.Job{},
		"todayApplications": report.CountToday(jobs, now),
		"totalApplications": report.CountTotal(jobs),
	})
}

type instructionsReq struct {
	Instructions *string `json:"instructions"`
}

// UpdateInstructions lets the assigned recruiter adjust a client's
// application instructions.
func (h *ClientHandler) UpdateInstructions(c echo.Context) error {
	var req instructionsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Instructions == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Instructions field is required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cl, err := h.Store.GetClientByID(ctx, c.Param("clientId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		return serverError(c, "Server error")
	}
	if cl.AssignedRecruiter != middleware.UserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Not authorized to edit this client"})
	}

	updated, err := h.Store.UpdateClient(ctx, cl.ID, store.ClientPatch{Instructions: req.Instructions})
	if err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, updated)
}

// Notifications lists the client's notifications, newest first.  ?unread=true
// narrows to unread only and ?limit caps the result.
func (h *ClientHandler) Notifications(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	f := store.NotificationFilter{ClientID: middleware.UserID(c)}
	if c.QueryParam("unread") == "true" {
		unread := false
		f.Read = &unread
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		f.Limit = n
	}

	list, err := h.Store.ListNotifications(ctx, f)
	if err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, list)
}

// MarkNotificationRead marks one of the client's notifications as read.
func (h *ClientHandler) MarkNotificationRead(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	err := h.Store.MarkNotificationRead(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Notification not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification as read.
func (h *ClientHandler) MarkAllNotificationsRead(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.MarkAllNotificationsRead(ctx, middleware.UserID(c)); err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}
