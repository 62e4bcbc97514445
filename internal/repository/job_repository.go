package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board-service/internal/domain"
)

// JobFilter captures listing search parameters. All filters are optional
// and conjunctive; Search matches title, description or company.
type JobFilter struct {
	Search   *string
	Type     *domain.JobType
	Location *string
}

// JobWithApplicationCount annotates a posting with its derived applicant count.
type JobWithApplicationCount struct {
	Job              domain.Job
	ApplicationCount int
}

// JobRepository encapsulates job posting persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	ListByPosterWithCounts(ctx context.Context, posterID string) ([]JobWithApplicationCount, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, company, location, type, salary, description, posted_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, posted_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Salary,
		job.Description,
		job.PostedByID,
	).Scan(&job.ID, &job.PostedAt)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	const query = `
        SELECT id, title, company, location, type, salary, description, posted_by_id, posted_at
        FROM jobs WHERE id=$1`

	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Type,
		&job.Salary,
		&job.Description,
		&job.PostedByID,
		&job.PostedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	base := `SELECT id, title, company, location, type, salary, description, posted_by_id, posted_at
             FROM jobs`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(company) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		location := "%" + strings.ToLower(strings.TrimSpace(*filter.Location)) + "%"
		args = append(args, location)
		clauses = append(clauses, fmt.Sprintf("LOWER(location) LIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY posted_at DESC`,
		base, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) ListByPosterWithCounts(ctx context.Context, posterID string) ([]JobWithApplicationCount, error) {
	const query = `
        SELECT j.id, j.title, j.company, j.location, j.type, j.salary, j.description,
               j.posted_by_id, j.posted_at, COUNT(a.id)
        FROM jobs j
        LEFT JOIN applications a ON a.job_id = j.id
        WHERE j.posted_by_id=$1
        GROUP BY j.id
        ORDER BY j.posted_at DESC`

	rows, err := r.pool.Query(ctx, query, posterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []JobWithApplicationCount
	for rows.Next() {
		var item JobWithApplicationCount
		if err := rows.Scan(
			&item.Job.ID,
			&item.Job.Title,
			&item.Job.Company,
			&item.Job.Location,
			&item.Job.Type,
			&item.Job.Salary,
			&item.Job.Description,
			&item.Job.PostedByID,
			&item.Job.PostedAt,
			&item.ApplicationCount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Company,
			&job.Location,
			&job.Type,
			&job.Salary,
			&job.Description,
			&job.PostedByID,
			&job.PostedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
