package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

var _ domain.JobRepository = (*PgxJobRepository)(nil)

// PgxJobRepository implements domain.JobRepository using pgxpool.
type PgxJobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new PgxJobRepository.
func NewJobRepository(pool *pgxpool.Pool) *PgxJobRepository {
	return &PgxJobRepository{pool: pool}
}

const jobColumns = `id, company, position, status, job_type, job_location, created_by, created_at, updated_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		j       domain.Job
		status  string
		jobType string
	)
	err := row.Scan(
		&j.ID, &j.Company, &j.Position, &status, &jobType, &j.JobLocation, &j.CreatedBy,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Status = domain.JobStatus(status)
	j.JobType = domain.JobType(jobType)
	return &j, nil
}

// List returns one page of the owner's jobs.
func (r *PgxJobRepository) List(ctx context.Context, query domain.JobQuery) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0)
	if !validUUID(query.Filter.CreatedBy) {
		return jobs, nil
	}

	where, args := buildJobWhere(query.Filter)
	sql := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + where + ` ORDER BY ` + jobOrderBy(query.Sort)
	if query.Limit > 0 {
		args = append(args, query.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if query.Skip > 0 {
		args = append(args, query.Skip)
		sql += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Count returns the number of jobs matching the filter.
func (r *PgxJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	if !validUUID(filter.CreatedBy) {
		return 0, nil
	}
	where, args := buildJobWhere(filter)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID returns the owner's job with the given id.
// Returns (nil, nil) when no such job exists for the owner.
func (r *PgxJobRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Job, error) {
	if !validUUID(ownerID) || !validUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND created_by = $2`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// Create inserts a new job.
func (r *PgxJobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = job.CreatedAt

	query := `INSERT INTO jobs (` + jobColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		job.ID, job.Company, job.Position, string(job.Status), string(job.JobType), job.JobLocation, job.CreatedBy,
		job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// Update modifies the owner's job in a single UPDATE ... RETURNING.
func (r *PgxJobRepository) Update(ctx context.Context, ownerID, id string, update domain.JobUpdate) (*domain.Job, error) {
	if !validUUID(ownerID) || !validUUID(id) {
		return nil, nil
	}
	query := `UPDATE jobs
		SET company = $3,
		    position = $4,
		    status = COALESCE($5, status),
		    job_type = COALESCE($6, job_type),
		    job_location = COALESCE($7, job_location),
		    updated_at = NOW()
		WHERE id = $1 AND created_by = $2
		RETURNING ` + jobColumns

	var status, jobType *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	if update.JobType != nil {
		t := string(*update.JobType)
		jobType = &t
	}

	job, err := scanJob(r.pool.QueryRow(ctx, query,
		id, ownerID, update.Company, update.Position, status, jobType, update.JobLocation,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// Delete removes the owner's job.
func (r *PgxJobRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	if !validUUID(ownerID) || !validUUID(id) {
		return false, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountByStatus groups the owner's jobs by status.
func (r *PgxJobRepository) CountByStatus(ctx context.Context, ownerID string) ([]domain.StatusCount, error) {
	counts := make([]domain.StatusCount, 0)
	if !validUUID(ownerID) {
		return counts, nil
	}
	query := `SELECT status, COUNT(*) FROM jobs WHERE created_by = $1 GROUP BY status`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByMonth groups the owner's jobs by UTC creation year and month, newest first.
func (r *PgxJobRepository) CountByMonth(ctx context.Context, ownerID string, limit int) ([]domain.MonthlyCount, error) {
	counts := make([]domain.MonthlyCount, 0)
	if !validUUID(ownerID) {
		return counts, nil
	}
	query := `
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
		       COUNT(*)
		FROM jobs
		WHERE created_by = $1
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c     domain.MonthlyCount
			month int
		)
		if err := rows.Scan(&c.Year, &month, &c.Count); err != nil {
			return nil, err
		}
		c.Month = time.Month(month)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// buildJobWhere renders the filter as a WHERE clause with positional arguments.
func buildJobWhere(filter domain.JobFilter) (string, []any) {
	clauses := []string{"created_by = $1"}
	args := []any{filter.CreatedBy}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		clauses = append(clauses, fmt.Sprintf(`position ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.JobType != "" {
		args = append(args, filter.JobType)
		clauses = append(clauses, fmt.Sprintf("job_type = $%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

// jobOrderBy maps a sort key to an ORDER BY list. The seq column records
// insertion order and breaks ties so pages never overlap.
func jobOrderBy(sort domain.JobSort) string {
	switch sort {
	case domain.SortLatest:
		return "created_at DESC, seq DESC"
	case domain.SortOldest:
		return "created_at ASC, seq ASC"
	case domain.SortPositionAsc:
		return `position COLLATE "C" ASC, seq ASC`
	case domain.SortPositionDesc:
		return `position COLLATE "C" DESC, seq DESC`
	default:
		return "seq ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
