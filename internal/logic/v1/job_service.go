package v1

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/middleware"
)

// JobService implements the owner-scoped job rules.
type JobService struct {
	jobs      domain.JobRepository
	validator *Validator
}

// NewJobService creates a new JobService with the given dependencies.
func NewJobService(jobs domain.JobRepository, validator *Validator) *JobService {
	return &JobService{jobs: jobs, validator: validator}
}

// List returns one page of the caller's jobs plus the total match count.
func (s *JobService) List(ctx context.Context, identity domain.Identity, params ListJobsParams) (*domain.JobsPage, error) {
	ctx, span := middleware.StartSpan(ctx, "jobs.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", identity.UserID),
	))
	defer span.End()

	query := BuildJobQuery(identity.UserID, params)
	span.SetAttributes(
		attribute.Int("query.skip", query.Skip),
		attribute.Int("query.limit", query.Limit),
	)

	jobs, err := s.jobs.List(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	total, err := s.jobs.Count(ctx, query.Filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	return &domain.JobsPage{
		Jobs:       jobs,
		TotalJobs:  total,
		NumOfPages: numOfPages(total, query.Limit),
	}, nil
}

// Get returns one of the caller's jobs.
func (s *JobService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Job, error) {
	ctx, span := middleware.StartSpan(ctx, "jobs.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("job.id", id),
	))
	defer span.End()

	job, err := s.jobs.GetByID(ctx, identity.UserID, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get job %q: %w", id, err)
	}
	if job == nil {
		return nil, fmt.Errorf("get job %q: %w", id, ErrJobNotFound)
	}
	return job, nil
}

// Create validates the payload and stores a job owned by the caller.
func (s *JobService) Create(ctx context.Context, identity domain.Identity, req domain.JobRequest) (*domain.Job, error) {
	ctx, span := middleware.StartSpan(ctx, "jobs.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", identity.UserID),
	))
	defer span.End()

	if identity.Demo {
		return nil, fmt.Errorf("create job: %w", ErrDemoUserReadOnly)
	}
	job, err := s.Import(ctx, identity.UserID, req, time.Time{})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("job.id", job.ID))
	return job, nil
}

// Import validates the payload and stores a job for ownerID with the given
// creation time (now when zero). It bypasses the demo check and is meant for
// seeding.
func (s *JobService) Import(ctx context.Context, ownerID string, req domain.JobRequest, createdAt time.Time) (*domain.Job, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validate job request: %w", err)
	}

	job := &domain.Job{
		Company:     *req.Company,
		Position:    *req.Position,
		Status:      domain.StatusPending,
		JobType:     domain.JobTypeFullTime,
		JobLocation: domain.DefaultJobLocation,
		CreatedBy:   ownerID,
		CreatedAt:   createdAt.UTC(),
	}
	if req.Status != nil {
		job.Status = domain.JobStatus(*req.Status)
	}
	if req.JobType != nil {
		job.JobType = domain.JobType(*req.JobType)
	}
	if req.JobLocation != nil {
		job.JobLocation = *req.JobLocation
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// Update validates the payload and modifies one of the caller's jobs.
func (s *JobService) Update(ctx context.Context, identity domain.Identity, id string, req domain.JobRequest) (*domain.Job, error) {
	ctx, span := middleware.StartSpan(ctx, "jobs.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("job.id", id),
	))
	defer span.End()

	if identity.Demo {
		return nil, fmt.Errorf("update job %q: %w", id, ErrDemoUserReadOnly)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validate job request: %w", err)
	}

	update := domain.JobUpdate{
		Company:     *req.Company,
		Position:    *req.Position,
		JobLocation: req.JobLocation,
	}
	if req.Status != nil {
		status := domain.JobStatus(*req.Status)
		update.Status = &status
	}
	if req.JobType != nil {
		jobType := domain.JobType(*req.JobType)
		update.JobType = &jobType
	}

	job, err := s.jobs.Update(ctx, identity.UserID, id, update)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update job %q: %w", id, err)
	}
	if job == nil {
		return nil, fmt.Errorf("update job %q: %w", id, ErrJobNotFound)
	}
	return job, nil
}

// Delete removes one of the caller's jobs.
func (s *JobService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	ctx, span := middleware.StartSpan(ctx, "jobs.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("job.id", id),
	))
	defer span.End()

	if identity.Demo {
		return fmt.Errorf("delete job %q: %w", id, ErrDemoUserReadOnly)
	}

	deleted, err := s.jobs.Delete(ctx, identity.UserID, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete job %q: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("delete job %q: %w", id, ErrJobNotFound)
	}
	return nil
}

// Stats returns the caller's status counts and recent monthly activity.
func (s *JobService) Stats(ctx context.Context, identity domain.Identity) (*domain.Stats, error) {
	ctx, span := middleware.StartSpan(ctx, "jobs.stats", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", identity.UserID),
	))
	defer span.End()

	byStatus, err := s.jobs.CountByStatus(ctx, identity.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	byMonth, err := s.jobs.CountByMonth(ctx, identity.UserID, statsMonths)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count jobs by month: %w", err)
	}

	return &domain.Stats{
		DefaultStats:        summarizeStatus(byStatus),
		MonthlyApplications: summarizeMonthly(byMonth),
	}, nil
}
