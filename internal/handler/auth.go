package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/config"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
	"github.com/msadki/applytrack/internal/utils"
)

// AuthHandler bundles dependencies for the three login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Store store.Store
}

func NewAuthHandler(cfg config.Config, st store.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: st}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginReq) validate() []string {
	var errs []string
	if r.Email == "" || !validEmail(r.Email) {
		errs = append(errs, "Valid email is required")
	}
	if len(r.Password) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	return errs
}

// bindLogin binds and validates the login body.  On failure the error
// response has already been written and ok is false.
func bindLogin(c echo.Context) (loginReq, bool) {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return req, false
	}
	if errs := req.validate(); len(errs) > 0 {
		_ = validationFailed(c, errs)
		return req, false
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req, true
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
}

// RecruiterLogin authenticates a recruiter and issues a 7 day token.
// Accounts without a password hash exist but cannot log in yet.
func (h *AuthHandler) RecruiterLogin(c echo.Context) error {
	req, ok := bindLogin(c)
	if !ok {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rec, err := h.Store.GetRecruiterByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidCredentials(c)
		}
		return serverError(c, "Server error during login")
	}
	if rec.PasswordHash == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Account not activated. Please contact administrator.",
		})
	}
	if !utils.VerifyPassword(rec.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}

	token, err := utils.NewToken(h.Cfg.JWTSecret, rec.ID, rec.Email, model.RoleRecruiter, h.Cfg.TokenTTLDays)
	if err != nil {
		return serverError(c, "Server error during login")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "recruiter": rec})
}

// ClientLogin authenticates a client portal account.
func (h *AuthHandler) ClientLogin(c echo.Context) error {
	req, ok := bindLogin(c)
	if !ok {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	cl, err := h.Store.GetClientByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidCredentials(c)
		}
		return serverError(c, "Server error during login")
	}
	if cl.PasswordHash == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Account not activated. Please contact admin to set your password.",
		})
	}
	if !utils.VerifyPassword(cl.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}

	token, err := utils.NewToken(h.Cfg.JWTSecret, cl.ID, cl.Email, model.RoleClient, h.Cfg.TokenTTLDays)
	if err != nil {
		return serverError(c, "Server error during login")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "client": cl})
}

// AdminLogin authenticates a platform administrator.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	req, ok := bindLogin(c)
	if !ok {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	adm, err := h.Store.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidCredentials(c)
		}
		return serverError(c, "Server error during login")
	}
	if !utils.VerifyPassword(adm.PasswordHash, req.Password) {
		return invalidCredentials(c)
	}

	token, err := utils.NewToken(h.Cfg.JWTSecret, adm.ID, adm.Email, model.RoleAdmin, h.Cfg.TokenTTLDays)
	if err != nil {
		return serverError(c, "Server error during login")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "admin": adm})
}
