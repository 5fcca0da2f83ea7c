package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/msadki/applytrack/internal/middleware"
	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/queue"
	"github.com/msadki/applytrack/internal/store"
)

// JobHandler serves job application CRUD for recruiters and the
// read-only job lists for clients.
type JobHandler struct {
	Store    store.Store
	Notifier *queue.Notifier
}

func NewJobHandler(st store.Store, n *queue.Notifier) *JobHandler {
	return &JobHandler{Store: st, Notifier: n}
}

// jobReq uses pointers so updates can distinguish "absent" from "empty".
type jobReq struct {
	ClientID    string  `json:"clientId"`
	CompanyName *string `json:"companyName"`
	JobTitle    *string `json:"jobTitle"`
	JobLink     *string `json:"jobLink"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

// validate applies the field rules shared by create and update.  create
// additionally requires clientId and the three core fields.
func (r *jobReq) validate(create bool) []string {
	var errs []string
	if create && r.ClientID == "" {
		errs = append(errs, "clientId is required")
	}
	if create && r.CompanyName == nil {
		errs = append(errs, "companyName is required and cannot be empty")
	}
	if r.CompanyName != nil {
		switch v := strings.TrimSpace(*r.CompanyName); {
		case v == "":
			errs = append(errs, "companyName is required and cannot be empty")
		case len(v) > 255:
			errs = append(errs, "companyName must be 255 characters or less")
		}
	}
	if create && r.JobTitle == nil {
		errs = append(errs, "jobTitle is required and cannot be empty")
	}
	if r.JobTitle != nil {
		switch v := strings.TrimSpace(*r.JobTitle); {
		case v == "":
			errs = append(errs, "jobTitle is required and cannot be empty")
		case len(v) > 255:
			errs = append(errs, "jobTitle must be 255 characters or less")
		}
	}
	if create && r.JobLink == nil {
		errs = append(errs, "jobLink is required and cannot be empty")
	}
	if r.JobLink != nil {
		switch v := strings.TrimSpace(*r.JobLink); {
		case v == "":
			errs = append(errs, "jobLink is required and cannot be empty")
		case !validURL(v):
			errs = append(errs, "jobLink must be a valid URL")
		case len(v) > 2048:
			errs = append(errs, "jobLink must be 2048 characters or less")
		}
	}
	if r.Location != nil && len(strings.TrimSpace(*r.Location)) > 255 {
		errs = append(errs, "location must be 255 characters or less")
	}
	if r.Notes != nil && len(*r.Notes) > 10000 {
		errs = append(errs, "notes must be 10000 characters or less")
	}
	if create && r.Status == nil {
		errs = append(errs, "status must be one of: Applied, To be Applied, Not Fit, Duplicate")
	}
	if r.Status != nil && !model.ValidStatus(*r.Status) {
		errs = append(errs, "status must be one of: Applied, To be Applied, Not Fit, Duplicate")
	}
	return errs
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// Create logs a new application for one of the recruiter's clients and
// notifies the client.
func (h *JobHandler) Create(c echo.Context) error {
	var req jobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(true); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	recruiterID := middleware.UserID(c)
	cl, err := h.Store.GetClientByID(ctx, req.ClientID)
	if err != nil || cl.AssignedRecruiter != recruiterID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Client not assigned to you"})
	}

	now := time.Now().UTC()
	job := model.Job{
		ID:          uuid.NewString(),
		ClientID:    req.ClientID,
		RecruiterID: recruiterID,
		CompanyName: trimmed(req.CompanyName),
		JobTitle:    trimmed(req.JobTitle),
		JobLink:     trimmed(req.JobLink),
		Location:    trimmed(req.Location),
		Status:      *req.Status,
		Notes:       trimmed(req.Notes),
		Date:        now.Format("2006-01-02"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Store.CreateJob(ctx, job); err != nil {
		return serverError(c, "Server error")
	}

	h.Notifier.Notify(ctx, cl.ID, model.NotifyJobAdded,
		"New job application: "+job.CompanyName+" - "+job.JobTitle)

	return c.JSON(http.StatusCreated, job)
}

// ownedJob fetches a job and checks that its client is assigned to the
// recruiter.  Not-found wins over not-authorized so ids cannot be probed.
// On failure the error response has already been written and ok is false.
func (h *JobHandler) ownedJob(c echo.Context, action string) (model.Job, bool) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	job, err := h.Store.GetJobByID(ctx, c.Param("jobId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "Job not found"})
		} else {
			_ = serverError(c, "Server error")
		}
		return model.Job{}, false
	}
	cl, err := h.Store.GetClientByID(ctx, job.ClientID)
	if err != nil || cl.AssignedRecruiter != middleware.UserID(c) {
		_ = c.JSON(http.StatusForbidden, echo.Map{
			"error": "Not authorized to " + action + " this job",
		})
		return model.Job{}, false
	}
	return job, true
}

// Update edits a job owned by one of the recruiter's clients.
func (h *JobHandler) Update(c echo.Context) error {
	var req jobReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(false); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	job, ok := h.ownedJob(c, "edit")
	if !ok {
		return nil
	}

	patch := store.JobPatch{Status: req.Status}
	if req.CompanyName != nil {
		v := strings.TrimSpace(*req.CompanyName)
		patch.CompanyName = &v
	}
	if req.JobTitle != nil {
		v := strings.TrimSpace(*req.JobTitle)
		patch.JobTitle = &v
	}
	if req.JobLink != nil {
		v := strings.TrimSpace(*req.JobLink)
		patch.JobLink = &v
	}
	if req.Location != nil {
		v := strings.TrimSpace(*req.Location)
		patch.Location = &v
	}
	if req.Notes != nil {
		v := strings.TrimSpace(*req.Notes)
		patch.Notes = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	updated, err := h.Store.UpdateJob(ctx, job.ID, patch)
	if err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a job owned by one of the recruiter's clients.
func (h *JobHandler) Delete(c echo.Context) error {
	job, ok := h.ownedJob(c, "delete")
	if !ok {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Store.DeleteJob(ctx, job.ID); err != nil {
		return serverError(c, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Job deleted successfully"})
}

// listPage serves a filtered, paginated job list for one client.
func (h *JobHandler) listPage(c echo.Context, clientID string) error {
	page, limit := pageParams(c, 50)

	f := store.JobFilter{
		ClientID: clientID,
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("search"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	jobs, err := h.Store.ListJobs(ctx, f)
	if err != nil {
		return serverError(c, "Server error")
	}
	f.Limit, f.Offset = 0, 0
	total, err := h.Store.CountJobs(ctx, f)
	if err != nil {
		return serverError(c, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"jobs":       jobs,
		"pagination": paginate(page, limit, total),
	})
}

// ListMine serves a client's own jobs.
func (h *JobHandler) ListMine(c echo.Context) error {
	return h.listPage(c, middleware.UserID(c))
}

// ListForClient serves one client's jobs to recruiters.
func (h *JobHandler) ListForClient(c echo.Context) error {
	return h.listPage(c, c.Param("clientId"))
}
