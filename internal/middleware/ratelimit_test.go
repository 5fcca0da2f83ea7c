package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/msadki/applytrack/internal/config"
)

func limitedEcho(cfg config.RateLimitConfig, counter Counter) *echo.Echo {
	e := echo.New()
	e.Use(RateLimit(cfg, counter, zap.NewNop()))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/jobs/me", ok)
	e.GET("/api/health", ok)
	e.POST("/api/auth/admin/login", ok)
	return e
}

func doGet(e *echo.Echo, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Window: time.Minute, Max: 3, Prefix: "rl"}
	e := limitedEcho(cfg, NewMemoryCounter())

	for i := 0; i < 3; i++ {
		if rec := doGet(e, "/api/jobs/me", "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, rec.Code)
		}
	}
	rec := doGet(e, "/api/jobs/me", "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request 4 = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 missing Retry-After header")
	}
}

func TestRateLimitRetryAfterWithinWindow(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Window: 10 * time.Second, Max: 1, Prefix: "rl"}
	e := limitedEcho(cfg, NewMemoryCounter())

	doGet(e, "/api/jobs/me", "10.0.0.1")
	rec := doGet(e, "/api/jobs/me", "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", rec.Code)
	}
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil {
		t.Fatalf("Retry-After not a number: %v", err)
	}
	if retry < 1 || retry > 10 {
		t.Fatalf("Retry-After = %d, want seconds remaining in the 10s window", retry)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Window: time.Minute, Max: 1, Prefix: "rl"}
	e := limitedEcho(cfg, NewMemoryCounter())

	doGet(e, "/api/jobs/me", "10.0.0.1")
	if rec := doGet(e, "/api/jobs/me", "10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other ip = %d, want 200", rec.Code)
	}
}

func TestRateLimitExemptPaths(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Window: time.Minute, Max: 1, Prefix: "rl"}
	e := limitedEcho(cfg, NewMemoryCounter())

	for i := 0; i < 5; i++ {
		if rec := doGet(e, "/api/health", "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("health request %d = %d, want 200", i+1, rec.Code)
		}
	}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/admin/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("admin login %d = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Window: time.Minute, Max: 1}
	e := limitedEcho(cfg, NewMemoryCounter())
	for i := 0; i < 10; i++ {
		if rec := doGet(e, "/api/jobs/me", "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter blocked request %d", i+1)
		}
	}
}

func TestMemoryCounterWindowReset(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()
	if n, _ := m.Incr(ctx, "k", 10*time.Millisecond); n != 1 {
		t.Fatalf("first incr = %d, want 1", n)
	}
	if n, _ := m.Incr(ctx, "k", 10*time.Millisecond); n != 2 {
		t.Fatalf("second incr = %d, want 2", n)
	}
	time.Sleep(15 * time.Millisecond)
	if n, _ := m.Incr(ctx, "k", 10*time.Millisecond); n != 1 {
		t.Fatalf("incr after expiry = %d, want 1", n)
	}
}

func TestMemoryCounterPurgeDropsExpired(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()
	m.Incr(ctx, "old", 10*time.Millisecond)
	m.Incr(ctx, "fresh", time.Hour)

	m.purge(time.Now().Add(time.Second))

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries["old"]; ok {
		t.Fatal("expired entry survived purge")
	}
	if _, ok := m.entries["fresh"]; !ok {
		t.Fatal("live entry dropped by purge")
	}
}
