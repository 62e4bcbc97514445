package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board-service/internal/api/dto"
	"github.com/spec-kit/job-board-service/internal/auth"
	"github.com/spec-kit/job-board-service/internal/domain"
	"github.com/spec-kit/job-board-service/internal/service"
	apperrors "github.com/spec-kit/job-board-service/pkg/util"
)

// JobsHandler manages job posting and application endpoints.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// ListJobs GET /jobs.
func (h *JobsHandler) ListJobs(c *fiber.Ctx) error {
	filter := parseJobListQuery(c)
	jobs, err := h.service.ListJobs(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobResponse(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetJob GET /jobs/:id.
func (h *JobsHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobResponse(job)})
}

// CreateJob POST /jobs.
func (h *JobsHandler) CreateJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.JobCreateInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Salary:      req.Salary,
		Description: req.Description,
	}
	job, err := h.service.CreateJob(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": jobResponse(job)})
}

// ApplyToJob POST /jobs/:jobId/apply.
func (h *JobsHandler) ApplyToJob(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	application, err := h.service.ApplyToJob(c.Context(), principal.User.ID, c.Params("jobId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": applicationResponse(application)})
}

func parseJobListQuery(c *fiber.Ctx) service.JobListFilter {
	filter := service.JobListFilter{}
	if q := c.Query("q"); q != "" {
		filter.Search = &q
	}
	if typeStr := c.Query("type"); typeStr != "" {
		jobType := domain.JobType(typeStr)
		filter.Type = &jobType
	}
	if location := c.Query("location"); location != "" {
		filter.Location = &location
	}
	return filter
}

func jobResponse(job *domain.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Type:        job.Type,
		Salary:      job.Salary,
		Description: job.Description,
		PostedByID:  job.PostedByID,
		PostedAt:    job.PostedAt,
	}
}

func applicationResponse(application *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:          application.ID,
		JobID:       application.JobID,
		JobTitle:    application.JobTitle,
		ApplicantID: application.ApplicantID,
		Status:      application.Status,
		AppliedAt:   application.AppliedAt,
	}
}
