package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
)

// recruiterReq uses a pointer for assignedClients so "omitted" and
// "empty list" update differently: nil leaves assignments alone, an
// empty list unassigns everyone.
type recruiterReq struct {
	accountReq
	AssignedClients *[]string `json:"assignedClients"`
}

type clientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListRecruiters pages through all recruiters with per-recruiter
// application counts and assigned client summaries.
func (h *AdminHandler) ListRecruiters(c echo.Context) error {
	page, limit := pageParams(c, 50)
	search := strings.ToLower(c.QueryParam("search"))

	ctx, cancel := dbCtx(c)
	defer cancel()

	recruiters, err := h.Store.ListRecruiters(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return serverError(c, "Server error")
	}

	now := time.Now()
	rows := make([]echo.Map, 0, len(recruiters))
	for _, rec := range recruiters {
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.Name), search) &&
			!strings.Contains(strings.ToLower(rec.Email), search) {
			continue
		}

		var recJobs []model.Job
		for _, j := range jobs {
			if j.RecruiterID == rec.ID {
				recJobs = append(recJobs, j)
			}
		}
		var assigned []clientRef
		for _, cl := range clients {
			if cl.AssignedRecruiter == rec.ID {
				assigned = append(assigned, clientRef{ID: cl.ID, Name: cl.Name})
			}
		}

		rows = append(rows, echo.Map{
			"id":                   rec.ID,
			"name":                 rec.Name,
			"email":                rec.Email,
			"createdAt":            rec.CreatedAt,
			"updatedAt":            rec.UpdatedAt,
			"todayApplications":    report.CountToday(recJobs, now),
			"totalApplications":    report.CountTotal(recJobs),
			"assignedClientsCount": len(assigned),
			"assignedClients":      assigned,
		})
	}

	total := len(rows)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, echo.Map{
		"recruiters": rows[start:end],
		"pagination": paginate(page, limit, total),
	})
}

// GetRecruiter returns one recruiter with assigned clients, job and
// session history and headline stats.
func (h *AdminHandler) GetRecruiter(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, err := h.Store.GetRecruiterByID(ctx, c.Param("recruiterId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Recruiter not found"})
		}
		return serverError(c, "Server error")
	}
	clients, err := h.Store.ListClients(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{RecruiterID: rec.ID})
	if err != nil {
		return serverError(c, "Server error")
	}
	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{RecruiterID: rec.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	assigned := make([]model.Client, 0)
	for _, cl := range clients {
		if cl.AssignedRecruiter == rec.ID {
			assigned = append(assigned, cl)
		}
	}
	active := 0
	for _, s := range sessions {
		if s.Status == model.SessionActive {
			active++
		}
	}

	now := time.Now()
	return c.JSON(http.StatusOK, echo.Map{
		"id":              rec.ID,
		"name":            rec.Name,
		"email":           rec.Email,
		"createdAt":       rec.CreatedAt,
		"updatedAt":       rec.UpdatedAt,
		"assignedClients": assigned,
		"jobs":            jobs,
		"sessions":        sessions,
		"stats": echo.Map{
			"totalJobs":            len(jobs),
			"todayJobs":            report.CountToday(jobs, now),
			"appliedJobs":          report.CountTotal(jobs),
			"totalSessions":        len(sessions),
			"activeSessions":       active,
			"assignedClientsCount": len(assigned),
		},
	})
}

func recruiterMap(r model.Recruiter) echo.Map {
	return echo.Map{
		"id":              r.ID,
		"name":            r.Name,
		"email":           r.Email,
		"assignedClients": r.AssignedClients,
		"createdAt":       r.CreatedAt,
		"updatedAt":       r.UpdatedAt,
	}
}

// CreateRecruiter provisions a recruiter account.  Client assignments
// included in the body are applied immediately.
func (h *AdminHandler) CreateRecruiter(c echo.Context) error {
	var req recruiterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || *req.Name == "" || req.Email == nil || *req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and email are required"})
	}
	hash, generated, msg := h.resolvePassword(req.accountReq, true)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	now := time.Now().UTC()
	rec := model.Recruiter{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(*req.Name),
		Email:        strings.TrimSpace(*req.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Store.CreateRecruiter(ctx, rec); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}
	if req.AssignedClients != nil && len(*req.AssignedClients) > 0 {
		if err := h.Store.AssignClients(ctx, rec.ID, *req.AssignedClients); err != nil {
			return serverError(c, "Server error")
		}
		rec.AssignedClients = *req.AssignedClients
	}
	return withGenerated(c, http.StatusCreated, recruiterMap(rec), generated)
}

// UpdateRecruiter edits a recruiter.  When assignedClients is present the
// recruiter's client set is replaced atomically.
func (h *AdminHandler) UpdateRecruiter(c echo.Context) error {
	var req recruiterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hash, generated, msg := h.resolvePassword(req.accountReq, false)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id := c.Param("recruiterId")
	if _, err := h.Store.GetRecruiterByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Recruiter not found"})
		}
		return serverError(c, "Server error")
	}

	if req.AssignedClients != nil {
		if err := h.Store.AssignClients(ctx, id, *req.AssignedClients); err != nil {
			return serverError(c, "Server error")
		}
	}

	patch := store.RecruiterPatch{}
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		patch.Name = &v
	}
	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		patch.Email = &v
	}
	if hash != "" {
		patch.PasswordHash = &hash
	}

	rec, err := h.Store.UpdateRecruiter(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}
	return withGenerated(c, http.StatusOK, recruiterMap(rec), generated)
}

// DeleteRecruiter removes a recruiter and unassigns their clients.
func (h *AdminHandler) DeleteRecruiter(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.DeleteRecruiter(ctx, c.Param("recruiterId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Recruiter not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recruiter deleted successfully"})
}

type assignClientsReq struct {
	ClientIDs *[]string `json:"clientIds"`
}

// AssignClients replaces a recruiter's full client set in one call.
func (h *AdminHandler) AssignClients(c echo.Context) error {
	var req assignClientsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ClientIDs == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "clientIds must be an array"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id := c.Param("recruiterId")
	if _, err := h.Store.GetRecruiterByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Recruiter not found"})
		}
		return serverError(c, "Server error")
	}
	if err := h.Store.AssignClients(ctx, id, *req.ClientIDs); err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Clients assigned successfully",
		"assignedCount": len(*req.ClientIDs),
	})
}
