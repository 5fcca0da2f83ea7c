package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/utils"
)

func authedEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/api/admin", RequireAuth(secret), RequireRole("admin"))
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": UserID(c)})
	})
	return e
}

func TestRequireAuthMissingToken(t *testing.T) {
	e := authedEcho("secret")
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access token required") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	e := authedEcho("secret")
	token, _ := utils.NewToken("secret", "a1", "a@x.com", "admin", -1)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token expired") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRequireRoleMismatch(t *testing.T) {
	e := authedEcho("secret")
	token, _ := utils.NewToken("secret", "r1", "r@x.com", "recruiter", 7)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403", rec.Code)
	}
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	e := authedEcho("secret")
	token, _ := utils.NewToken("secret", "a1", "a@x.com", "admin", 7)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"a1"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
