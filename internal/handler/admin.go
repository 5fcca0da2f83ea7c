package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/config"
	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/report"
	"github.com/msadki/applytrack/internal/store"
	"github.com/msadki/applytrack/internal/utils"
)

// AdminHandler serves the administration surface: account management,
// platform dashboards, reports and exports.
type AdminHandler struct {
	Cfg   config.Config
	Store store.Store
}

func NewAdminHandler(cfg config.Config, st store.Store) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Store: st}
}

// accountReq is the shared create/update body for admin-managed
// accounts.  With GeneratePassword set and no explicit password, a
// random one is issued and echoed back once in the response.
type accountReq struct {
	Name             *string `json:"name"`
	Email            *string `json:"email"`
	Password         string  `json:"password"`
	GeneratePassword bool    `json:"generatePassword"`
}

// resolvePassword hashes the explicit or generated password.  Returns
// the hash, the generated plaintext (empty unless generated) and an
// error message for the client ("" when valid).  required controls
// whether an absent password is an error.
func (h *AdminHandler) resolvePassword(req accountReq, required bool) (hash, generated, errMsg string) {
	password := req.Password
	if req.GeneratePassword && password == "" {
		p, err := utils.GeneratePassword()
		if err != nil {
			return "", "", "Server error"
		}
		generated = p
		password = p
	}
	if password == "" {
		if required {
			return "", "", "Password is required or generate one"
		}
		return "", "", ""
	}
	if len(password) < 6 {
		return "", "", "Password must be at least 6 characters"
	}
	hash, err := utils.HashPassword(password, h.Cfg.BcryptCost)
	if err != nil {
		return "", "", "Server error"
	}
	return hash, generated, ""
}

// withGenerated serializes v merged with a generatedPassword field when
// one was issued.
func withGenerated(c echo.Context, status int, v echo.Map, generated string) error {
	if generated != "" {
		v["generatedPassword"] = generated
	}
	return c.JSON(status, v)
}

// Me returns the logged-in admin's profile.
func (h *AdminHandler) Me(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	adm, err := h.Store.GetAdminByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, adm)
}

// ListAdmins returns every admin account.
func (h *AdminHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	admins, err := h.Store.ListAdmins(ctx)
	if err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, admins)
}

func adminMap(a model.Admin) echo.Map {
	return echo.Map{
		"id":        a.ID,
		"name":      a.Name,
		"email":     a.Email,
		"role":      a.Role,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
}

// CreateAdmin provisions a new admin account.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req accountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || *req.Name == "" || req.Email == nil || *req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and email are required"})
	}
	hash, generated, msg := h.resolvePassword(req, true)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	now := time.Now().UTC()
	adm := model.Admin{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(*req.Name),
		Email:        strings.TrimSpace(*req.Email),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Store.CreateAdmin(ctx, adm); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}
	return withGenerated(c, http.StatusCreated, adminMap(adm), generated)
}

// UpdateAdmin edits an admin account, optionally rotating its password.
func (h *AdminHandler) UpdateAdmin(c echo.Context) error {
	var req accountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hash, generated, msg := h.resolvePassword(req, false)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	patch := store.AdminPatch{}
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

	adm, err := h.Store.UpdateAdmin(ctx, c.Param("adminId"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
		}
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		}
		return serverError(c, "Server error")
	}
	return withGenerated(c, http.StatusOK, adminMap(adm), generated)
}

// DeleteAdmin removes an admin account.  Admins cannot delete themselves.
func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
	if c.Param("adminId") == middleware.UserID(c) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You cannot delete your own account"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.DeleteAdmin(ctx, c.Param("adminId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
		}
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Admin deleted successfully"})
}

// Dashboard returns platform-wide headline counts.
func (h *AdminHandler) Dashboard(c echo.Context) error {
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
	jobs, err := h.Store.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return serverError(c, "Server error")
	}

	stats := report.Dashboard(jobs, time.Now())
	return c.JSON(http.StatusOK, echo.Map{
		"totalClients":      len(clients),
		"totalRecruiters":   len(recruiters),
		"todayApplications": stats.TodayApplications,
		"weekApplications":  stats.WeekApplications,
		"monthApplications": stats.MonthApplications,
		"totalJobs":         len(jobs),
	})
}
