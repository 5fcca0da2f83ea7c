// Package router wires handlers, authentication and role checks onto
// the Echo instance.  Every surface lives under /api.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/handler"
	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
)

// RegisterRoutes registers the unauthenticated routes: the health check
// and the JSON 404 fallback.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", handler.Health)
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Route not found"})
	})
}

// RegisterAuth registers the three role logins under /api/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/recruiter/login", a.RecruiterLogin)
	g.POST("/client/login", a.ClientLogin)
	g.POST("/admin/login", a.AdminLogin)
}

// RegisterRecruiters registers the recruiter self-service surface.
func RegisterRecruiters(e *echo.Echo, r *handler.RecruiterHandler, jwtSecret string) {
	g := e.Group("/api/recruiters")
	g.Use(middleware.RequireAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleRecruiter))
	g.GET("/me", r.Me)
	g.GET("/me/clients", r.MeClients)
	g.GET("/me/dashboard", r.MeDashboard)
	g.GET("/me/analytics", r.MeAnalytics)
	g.GET("/me/timeline", r.MeTimeline)
	g.GET("/me/insights", r.MeInsights)
}

// RegisterClients registers the client portal and the recruiter-facing
// client detail endpoints.  The portal routes require the client role;
// the detail and instruction routes require the recruiter role.
func RegisterClients(e *echo.Echo, h *handler.ClientHandler, jwtSecret string) {
	me := e.Group("/api/clients/me")
	me.Use(middleware.RequireAuth(jwtSecret))
	me.Use(middleware.RequireRole(model.RoleClient))
	me.GET("", h.Me)
	me.GET("/dashboard", h.MeDashboard)
	me.GET("/notifications", h.Notifications)
	me.POST("/notifications/:id/read", h.MarkNotificationRead)
	me.POST("/notifications/read-all", h.MarkAllNotificationsRead)

	g := e.Group("/api/clients")
	g.Use(middleware.RequireAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleRecruiter))
	g.GET("/:clientId", h.Get)
	g.PUT("/:clientId/instructions", h.UpdateInstructions)
}

// RegisterJobs registers job CRUD for recruiters and the job lists for
// clients.
func RegisterJobs(e *echo.Echo, j *handler.JobHandler, jwtSecret string) {
	rec := e.Group("/api/jobs")
	rec.Use(middleware.RequireAuth(jwtSecret))
	rec.Use(middleware.RequireRole(model.RoleRecruiter))
	rec.POST("", j.Create)
	rec.PUT("/:jobId", j.Update)
	rec.DELETE("/:jobId", j.Delete)
	rec.GET("/client/:clientId", j.ListForClient)

	cl := e.Group("/api/jobs/me")
	cl.Use(middleware.RequireAuth(jwtSecret))
	cl.Use(middleware.RequireRole(model.RoleClient))
	cl.GET("", j.ListMine)
}

// RegisterSessions registers session control for recruiters and the
// session views of the client portal.
func RegisterSessions(e *echo.Echo, s *handler.SessionHandler, jwtSecret string) {
	rec := e.Group("/api/sessions")
	rec.Use(middleware.RequireAuth(jwtSecret))
	rec.Use(middleware.RequireRole(model.RoleRecruiter))
	rec.POST("/start", s.Start)
	rec.POST("/end", s.End)
	rec.GET("/client/:clientId/active", s.ActiveForClient)
	rec.GET("/client/:clientId/history", s.HistoryForClient)

	cl := e.Group("/api/sessions/me")
	cl.Use(middleware.RequireAuth(jwtSecret))
	cl.Use(middleware.RequireRole(model.RoleClient))
	cl.GET("/active", s.MyActive)
	cl.GET("/history", s.MyHistory)
}

// RegisterAdmin registers the full administration surface.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/api/admin")
	g.Use(middleware.RequireAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/me", a.Me)
	g.GET("/admins", a.ListAdmins)
	g.POST("/admins", a.CreateAdmin)
	g.PUT("/admins/:adminId", a.UpdateAdmin)
	g.DELETE("/admins/:adminId", a.DeleteAdmin)

	g.GET("/dashboard", a.Dashboard)

	g.GET("/clients", a.ListClients)
	g.GET("/clients/:clientId", a.GetClient)
	g.POST("/clients", a.CreateClient)
	g.PUT("/clients/:clientId", a.UpdateClient)
	g.DELETE("/clients/:clientId", a.DeleteClient)

	g.GET("/recruiters", a.ListRecruiters)
	g.GET("/recruiters/:recruiterId", a.GetRecruiter)
	g.POST("/recruiters", a.CreateRecruiter)
	g.PUT("/recruiters/:recruiterId", a.UpdateRecruiter)
	g.DELETE("/recruiters/:recruiterId", a.DeleteRecruiter)
	g.POST("/recruiters/:recruiterId/assign-clients", a.AssignClients)

	// the static /jobs/activity route must beat the :jobId parameter
	g.GET("/jobs/activity", a.JobActivity)
	g.GET("/jobs", a.ListJobs)
	g.PUT("/jobs/:jobId", a.UpdateJob)
	g.DELETE("/jobs/:jobId", a.DeleteJob)

	g.GET("/sessions", a.ListSessions)
	g.POST("/sessions/:sessionId/end", a.EndSession)

	g.GET("/reports/daily", a.DailyReport)
	g.GET("/reports/weekly", a.WeeklyReport)
	g.GET("/reports/monthly", a.MonthlyReport)

	g.GET("/export/clients", a.ExportClients)
	g.GET("/export/jobs", a.ExportJobs)
}
