package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/job-board-service/internal/domain"
	"github.com/spec-kit/job-board-service/internal/events"
	"github.com/spec-kit/job-board-service/internal/repository"
	apperrors "github.com/spec-kit/job-board-service/pkg/util"
)

// JobService coordinates the job posting and application workflows.
type JobService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	dispatcher   events.Dispatcher
}

// JobDependencies bundles repositories for the job service.
type JobDependencies struct {
	JobRepo         repository.JobRepository
	ApplicationRepo repository.ApplicationRepository
	Dispatcher      events.Dispatcher
}

// JobCreateInput describes the job posting payload.
type JobCreateInput struct {
	Title       string
	Company     string
	Location    string
	Type        domain.JobType
	Salary      *string
	Description string
}

// JobListFilter describes listing filters. All fields are optional and
// conjunctive; Search matches title, description or company.
type JobListFilter struct {
	Search   *string
	Type     *domain.JobType
	Location *string
}

// Dashboard aggregates a user's posted jobs and filed applications.
type Dashboard struct {
	PostedJobs   []repository.JobWithApplicationCount
	Applications []repository.ApplicationWithJob
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	return &JobService{
		jobs:         deps.JobRepo,
		applications: deps.ApplicationRepo,
		dispatcher:   deps.Dispatcher,
	}
}

// CreateJob validates and persists a new posting for the given user.
func (s *JobService) CreateJob(ctx context.Context, posterID string, input JobCreateInput) (*domain.Job, error) {
	job := &domain.Job{
		Title:       strings.TrimSpace(input.Title),
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		Type:        input.Type,
		Salary:      input.Salary,
		Description: strings.TrimSpace(input.Description),
		PostedByID:  posterID,
	}

	missing := []string{}
	if job.Title == "" {
		missing = append(missing, "title")
	}
	if job.Company == "" {
		missing = append(missing, "company")
	}
	if job.Location == "" {
		missing = append(missing, "location")
	}
	if job.Type == "" {
		missing = append(missing, "type")
	}
	if job.Description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	if !domain.ValidJobType(job.Type) {
		return nil, apperrors.NewValidationError("unknown job type", map[string]any{"type": string(job.Type)})
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventJobPosted,
		JobID:   job.ID,
		ActorID: posterID,
		Payload: events.JobPostedPayload{
			Title:    job.Title,
			Company:  job.Company,
			Location: job.Location,
			Type:     job.Type,
		},
	})
	return job, nil
}

// ListJobs returns postings matching the filter, newest first.
func (s *JobService) ListJobs(ctx context.Context, filter JobListFilter) ([]domain.Job, error) {
	repoFilter := repository.JobFilter{
		Search:   filter.Search,
		Type:     filter.Type,
		Location: filter.Location,
	}
	jobs, err := s.jobs.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}

// GetJob fetches a single posting by id.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
		}
		return nil, err
	}
	return job, nil
}

// ApplyToJob files an application for the given user. At most one
// application may exist per (job, applicant) pair; the check-then-insert
// here is backed by the composite unique key on the applications table,
// so a racing duplicate insert still surfaces as a conflict.
func (s *JobService) ApplyToJob(ctx context.Context, applicantID, jobID string) (*domain.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
		}
		return nil, err
	}

	if _, err := s.applications.GetByJobAndApplicant(ctx, jobID, applicantID); err == nil {
		return nil, apperrors.NewApplicationExists(map[string]any{"job_id": jobID})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	application := &domain.Application{
		JobID:       job.ID,
		JobTitle:    job.Title,
		ApplicantID: applicantID,
		Status:      domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		if err == repository.ErrDuplicateApplication {
			return nil, apperrors.NewApplicationExists(map[string]any{"job_id": jobID})
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventApplicationSubmitted,
		JobID:   job.ID,
		ActorID: applicantID,
		Payload: events.ApplicationSubmittedPayload{
			ApplicationID: application.ID,
			JobTitle:      application.JobTitle,
			ApplicantID:   applicantID,
			PosterID:      job.PostedByID,
		},
	})
	return application, nil
}

// GetDashboard projects a user's posted jobs and applications. The two
// reads touch disjoint row sets and run concurrently.
func (s *JobService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var (
		postedJobs   []repository.JobWithApplicationCount
		applications []repository.ApplicationWithJob
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		postedJobs, err = s.jobs.ListByPosterWithCounts(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		applications, err = s.applications.ListByApplicantWithJobs(groupCtx, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if postedJobs == nil {
		postedJobs = []repository.JobWithApplicationCount{}
	}
	if applications == nil {
		applications = []repository.ApplicationWithJob{}
	}
	return &Dashboard{PostedJobs: postedJobs, Applications: applications}, nil
}

func (s *JobService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
