package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board-service/internal/api/http/handlers"
	"github.com/spec-kit/job-board-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Jobs           *handlers.JobsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Get("/github/login", cfg.Auth.Login)
	authGroup.Get("/github/callback", cfg.Auth.Callback)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Auth.Me)

	jobs := app.Group("/jobs")
	jobs.Get("/", cfg.Jobs.ListJobs)
	jobs.Get("/:id", cfg.Jobs.GetJob)
	jobs.Post("/", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Jobs.CreateJob)
	jobs.Post("/:jobId/apply", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Jobs.ApplyToJob)

	app.Get("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Dashboard.GetDashboard)
}
