package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board-service/internal/api/dto"
	"github.com/spec-kit/job-board-service/internal/auth"
	"github.com/spec-kit/job-board-service/internal/service"
	apperrors "github.com/spec-kit/job-board-service/pkg/util"
)

// DashboardHandler serves the per-user dashboard projection.
type DashboardHandler struct {
	service *service.JobService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(jobService *service.JobService) *DashboardHandler {
	return &DashboardHandler{service: jobService}
}

// GetDashboard GET /dashboard.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	dashboard, err := h.service.GetDashboard(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}

	postedJobs := make([]dto.PostedJobResponse, 0, len(dashboard.PostedJobs))
	for i := range dashboard.PostedJobs {
		item := &dashboard.PostedJobs[i]
		postedJobs = append(postedJobs, dto.PostedJobResponse{
			JobResponse:      jobResponse(&item.Job),
			ApplicationCount: item.ApplicationCount,
		})
	}

	applications := make([]dto.ApplicationWithJobResponse, 0, len(dashboard.Applications))
	for i := range dashboard.Applications {
		item := &dashboard.Applications[i]
		applications = append(applications, dto.ApplicationWithJobResponse{
			ApplicationResponse: applicationResponse(&item.Application),
			Job:                 jobResponse(&item.Job),
		})
	}

	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		PostedJobs:   postedJobs,
		Applications: applications,
	}})
}
