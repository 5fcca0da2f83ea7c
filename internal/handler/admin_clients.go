package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

type clientReq struct {
	accountReq
	AssignedRecruiter *string `json:"assignedRecruiter"`
	MonthlyTarget     *int    `json:"monthlyTarget"`
	DailyTarget       *int    `json:"dailyTarget"`
	Instructions      *string `json:"instructions"`
}

type adminClientRow struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	AssignedRecruiter     string    `json:"assignedRecruiter,omitempty"`
	AssignedRecruiterName string    `json:"assignedRecruiterName,omitempty"`
	MonthlyTarget         int       `json:"monthlyTarget"`
	DailyTarget           int       `json:"dailyTarget"`
	Instructions          string    `json:"instructions"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ListClients pages through all clients with optional ?search and
// ?recruiterId filters.  Application counts are deliberately left out of
// the list view; the detail endpoint carries them.
func (h *AdminHandler) ListClients(c echo.Context) error {
	page, limit := pageParams(c, 50)
	search := strings.ToLower(c.QueryParam("search"))
	recruiterID := c.QueryParam("recruiterId")

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
	names := make(map[string]string, len(recruiters))
	for _, r := range recruiters {
		names[r.ID] = r.Name
	}

	rows := make([]adminClientRow, 0, len(clients))
	for _, cl := range clients {
		if search != "" &&
			!strings.Contains(strings.ToLower(cl.Name), search) &&
			!strings.Contains(strings.ToLower(cl.Email), search) {
			continue
		}
		if recruiterID != "" && cl.AssignedRecruiter != recruiterID {
			continue
		}
		rows = append(rows, adminClientRow{
			ID:                    cl.ID,
			Name:                  cl.Name,
			Email:                 cl.Email,
			AssignedRecruiter:     cl.AssignedRecruiter,
			AssignedRecruiterName: names[cl.AssignedRecruiter],
			MonthlyTarget:         cl.MonthlyTarget,
			DailyTarget:           cl.DailyTarget,
			Instructions:          cl.Instructions,
			CreatedAt:             cl.CreatedAt,
			UpdatedAt:             cl.UpdatedAt,
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
		"clients":    rows[start:end],
		"pagination": paginate(page, limit, total),
	})
}

// GetClient returns a client with recruiter info, full job and session
// history and headline stats.
func (h *AdminHandler) GetClient(c echo.Context) error {
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
	sessions, err := h.Store.ListSessions(ctx, store.SessionFilter{ClientID: cl.ID})
	if err != nil {
		return serverError(c, "Server error")
	}

	var recName, recEmail string
	if cl.AssignedRecruiter != "" {
		if rec, err := h.Store.GetRecruiterByID(ctx, cl.AssignedRecruiter); err == nil {
			recName, recEmail = rec.Name, rec.Email
		}
	}

	applied, active := 0, 0
	for _, j := range jobs {
		if model.CountsAsApplication(j.Status) {
			applied++
		}
	}
	for _, s := range sessions {
		if s.Status == model.SessionActive {
			active++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":                     cl.ID,
		"name":                   cl.Name,
		"email":                  cl.Email,
		"assignedRecruiter":      cl.AssignedRecruiter,
		"assignedRecruiterName":  recName,
		"assignedRecruiterEmail": recEmail,
		"monthlyTarget":          cl.MonthlyTarget,
		"dailyTarget":            cl.DailyTarget,
		"instructions":           cl.Instructions,
		"hasPassword":            cl.PasswordHash != "",
		"createdAt":              cl.CreatedAt,
		"updatedAt":              cl.UpdatedAt,
		"jobs":                   jobs,
		"sessions":               sessions,
		"stats": echo.Map{
			"totalJobs":      len(jobs),
			"appliedJobs":    applied,
			"totalSessions":  len(sessions),
			"activeSessions": active,
		},
	})
}

// CreateClient provisions a client.  The password is optional; a client
// without one exists but cannot use the portal yet.
func (h *AdminHandler) CreateClient(c echo.Context) error {
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || *req.Name == "" || req.Email == nil || *req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and email are required"})
	}
	hash, generated, msg := h.resolvePassword(req.accountReq, false)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	now := time.Now().UTC()
	cl := model.Client{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(*req.Name),
		Email:        strings.TrimSpace(*req.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.AssignedRecruiter != nil {
		cl.AssignedRecruiter = *req.AssignedRecruiter
	}
	if req.MonthlyTarget != nil {
		cl.MonthlyTarget = *req.MonthlyTarget
	}
	if req.DailyTarget != nil {
		cl.DailyTarget = *req.DailyTarget
	}
	if req.Instructions != nil {
		cl.Instructions = *req.Instructions
	}

	if err := h.Store.CreateClient(ctx, cl); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}

	return withGenerated(c, http.StatusCreated, echo.Map{
		"id":                cl.ID,
		"name":              cl.Name,
		"email":             cl.Email,
		"assignedRecruiter": cl.AssignedRecruiter,
		"monthlyTarget":     cl.MonthlyTarget,
		"dailyTarget":       cl.DailyTarget,
		"instructions":      cl.Instructions,
		"createdAt":         cl.CreatedAt,
		"updatedAt":         cl.UpdatedAt,
	}, generated)
}

// UpdateClient edits a client, optionally rotating its portal password
// or reassigning its recruiter.
func (h *AdminHandler) UpdateClient(c echo.Context) error {
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hash, generated, msg := h.resolvePassword(req.accountReq, false)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	patch := store.ClientPatch{
		AssignedRecruiter: req.AssignedRecruiter,
		MonthlyTarget:     req.MonthlyTarget,
		DailyTarget:       req.DailyTarget,
		Instructions:      req.Instructions,
	}
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

	cl, err := h.Store.UpdateClient(ctx, c.Param("clientId"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}

	return withGenerated(c, http.StatusOK, echo.Map{
		"id":                cl.ID,
		"name":              cl.Name,
		"email":             cl.Email,
		"assignedRecruiter": cl.AssignedRecruiter,
		"monthlyTarget":     cl.MonthlyTarget,
		"dailyTarget":       cl.DailyTarget,
		"instructions":      cl.Instructions,
		"hasPassword":       cl.PasswordHash != "",
		"createdAt":         cl.CreatedAt,
		"updatedAt":         cl.UpdatedAt,
	}, generated)
}

// DeleteClient removes a client.  Its jobs and sessions are kept for
// historical reporting.
func (h *AdminHandler) DeleteClient(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.DeleteClient(ctx, c.Param("clientId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Client not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
}
