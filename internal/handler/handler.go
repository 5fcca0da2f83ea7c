// Package handler contains the Echo HTTP handlers for every role surface.
// Handlers bundle their dependencies in a struct, bind request DTOs,
// enforce ownership, and delegate persistence to the store.
package handler

import (
	"context"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// dbCtx derives a bounded context for store calls from the request.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pageParams reads ?page and ?limit with the given default page size.
// Values below 1 fall back to the defaults.
func pageParams(c echo.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// pagination is the envelope attached to every paginated list response.
type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func paginate(page, limit, total int) pagination {
	pages := (total + limit - 1) / limit
	return pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// validationFailed renders the standard 400 body for field errors.
func validationFailed(c echo.Context, errs []string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":  "Validation failed",
		"errors": errs,
	})
}

func serverError(c echo.Context, msg string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
