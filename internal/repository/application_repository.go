package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board-service/internal/domain"
)

// ErrDuplicateApplication is returned when the (job_id, applicant_id)
// unique key rejects an insert.
var ErrDuplicateApplication = errors.New("application already exists")

const uniqueViolationCode = "23505"

// ApplicationWithJob joins an application with its posting for dashboard reads.
type ApplicationWithJob struct {
	Application domain.Application
	Job         domain.Job
}

// ApplicationRepository encapsulates application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error)
	ListByApplicantWithJobs(ctx context.Context, applicantID string) ([]ApplicationWithJob, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	const query = `
        INSERT INTO applications (job_id, job_title, applicant_id, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, applied_at`
	err := r.pool.QueryRow(ctx, query,
		application.JobID,
		application.JobTitle,
		application.ApplicantID,
		application.Status,
	).Scan(&application.ID, &application.AppliedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *applicationRepository) GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	const query = `
        SELECT id, job_id, job_title, applicant_id, status, applied_at
        FROM applications WHERE job_id=$1 AND applicant_id=$2`

	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, jobID, applicantID).Scan(
		&application.ID,
		&application.JobID,
		&application.JobTitle,
		&application.ApplicantID,
		&application.Status,
		&application.AppliedAt,
	); err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) ListByApplicantWithJobs(ctx context.Context, applicantID string) ([]ApplicationWithJob, error) {
	const query = `
        SELECT a.id, a.job_id, a.job_title, a.applicant_id, a.status, a.applied_at,
               j.id, j.title, j.company, j.location, j.type, j.salary, j.description,
               j.posted_by_id, j.posted_at
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        WHERE a.applicant_id=$1
        ORDER BY a.applied_at DESC`

	rows, err := r.pool.Query(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ApplicationWithJob
	for rows.Next() {
		var item ApplicationWithJob
		if err := rows.Scan(
			&item.Application.ID,
			&item.Application.JobID,
			&item.Application.JobTitle,
			&item.Application.ApplicantID,
			&item.Application.Status,
			&item.Application.AppliedAt,
			&item.Job.ID,
			&item.Job.Title,
			&item.Job.Company,
			&item.Job.Location,
			&item.Job.Type,
			&item.Job.Salary,
			&item.Job.Description,
			&item.Job.PostedByID,
			&item.Job.PostedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
