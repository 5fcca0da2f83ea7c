package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msadki/applytrack/internal/config"
)

// Counter counts hits per key within a fixed window.  Incr returns the
// hit count including the current one.  Implementations expire a key one
// window after its first hit.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryEntry struct {
	count   int64
	expires time.Time
}

// MemoryCounter is the single-instance Counter.  A map guarded by a
// mutex; a background sweep drops expired entries every minute so the
// map does not grow with dead keys.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryCounter() *MemoryCounter {
	m := &MemoryCounter{entries: map[string]*memoryEntry{}}
	go m.sweep(time.Minute)
	return m
}

func (m *MemoryCounter) sweep(every time.Duration) {
	for now := range time.Tick(every) {
		m.purge(now)
	}
}

func (m *MemoryCounter) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
}

func (m *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	e, ok := m.entries[key]
	if !ok || now.After(e.expires) {
		e = &memoryEntry{expires: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// RedisCounter shares the window counts across instances using
// INCR + EXPIRE.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		r.rdb.Expire(ctx, key, window)
	}
	return n, nil
}

// Paths that bypass the limiter: monitoring probes and staff logins,
// which must stay reachable even when a client floods the API.
var rateLimitExempt = map[string]bool{
	"/api/health":               true,
	"/api/auth/recruiter/login": true,
	"/api/auth/admin/login":     true,
}

// RateLimit returns a fixed-window per-IP limiter.  A counter failure
// lets the request through; limiting degrades rather than taking the
// API down with it.
func RateLimit(cfg config.RateLimitConfig, counter Counter, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || counter == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	winSecs := int64(cfg.Window / time.Second)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rateLimitExempt[c.Request().URL.Path] {
				return next(c)
			}
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			now := time.Now().Unix()
			slot := now / winSecs
			key := cfg.Prefix + ":" + ip + ":" + strconv.FormatInt(slot, 10)

			n, err := counter.Incr(c.Request().Context(), key, cfg.Window)
			if err != nil {
				logger.Warn("rate limit counter error", zap.String("ip", ip), zap.Error(err))
				return next(c)
			}

			remaining := int64(cfg.Max) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if n > int64(cfg.Max) {
				// Seconds left until the current window rolls over.
				retry := int((slot+1)*winSecs - now)
				if retry < 1 {
					retry = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":      "too_many_requests",
					"message":    "Too many requests, please try again later",
					"retryAfter": retry,
				})
			}
			return next(c)
		}
	}
}
