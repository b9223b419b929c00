package domain

import (
	"context"
	"time"
)

// JobStatus is the stage a job application is in.
type JobStatus string

const (
	StatusInterview JobStatus = "interview"
	StatusDeclined  JobStatus = "declined"
	StatusPending   JobStatus = "pending"
)

// JobType is the employment kind of a job.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeRemote     JobType = "remote"
	JobTypeInternship JobType = "internship"
)

// DefaultJobLocation is used when a job is created without a location.
const DefaultJobLocation = "my city"

// Job is a tracked job application owned by exactly one user.
type Job struct {
	ID          string    `json:"_id"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Status      JobStatus `json:"status"`
	JobType     JobType   `json:"jobType"`
	JobLocation string    `json:"jobLocation"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// JobUpdate describes a partial job update. Company and Position are always
// written; nil pointers leave the stored value untouched.
type JobUpdate struct {
	Company     string
	Position    string
	Status      *JobStatus
	JobType     *JobType
	JobLocation *string
}

// JobFilter selects jobs. CreatedBy is mandatory; empty optional fields
// do not constrain the result.
type JobFilter struct {
	CreatedBy string
	// Search is matched as a case-insensitive substring of Position.
	Search  string
	Status  string
	JobType string
}

// JobSort is a store-level ordering for job listings.
type JobSort int

const (
	// SortNatural is insertion order.
	SortNatural JobSort = iota
	SortLatest
	SortOldest
	SortPositionAsc
	SortPositionDesc
)

// JobQuery is a filtered, sorted and paginated listing request.
type JobQuery struct {
	Filter JobFilter
	Sort   JobSort
	Skip   int
	Limit  int
}

// StatusCount is the number of a user's jobs with a given status.
type StatusCount struct {
	Status string
	Count  int
}

// MonthlyCount is the number of a user's jobs created in a calendar month (UTC).
type MonthlyCount struct {
	Year  int
	Month time.Month
	Count int
}

// JobRepository defines the data-access contract for job operations.
// Every method is scoped to an owner; a job owned by someone else is
// indistinguishable from a missing one.
type JobRepository interface {
	// List returns one page of jobs matching the query.
	List(ctx context.Context, query JobQuery) ([]Job, error)

	// Count returns the number of jobs matching the filter, ignoring pagination.
	Count(ctx context.Context, filter JobFilter) (int, error)

	// GetByID returns the owner's job with the given id.
	// Returns (nil, nil) when no such job exists for the owner.
	GetByID(ctx context.Context, ownerID, id string) (*Job, error)

	// Create inserts a job and fills in its generated ID. A zero CreatedAt
	// is set to the current time.
	Create(ctx context.Context, job *Job) error

	// Update applies the update to the owner's job in a single atomic
	// match-and-modify and returns the new state.
	// Returns (nil, nil) when no such job exists for the owner.
	Update(ctx context.Context, ownerID, id string, update JobUpdate) (*Job, error)

	// Delete removes the owner's job. Reports false when nothing matched.
	Delete(ctx context.Context, ownerID, id string) (bool, error)

	// CountByStatus groups the owner's jobs by status.
	CountByStatus(ctx context.Context, ownerID string) ([]StatusCount, error)

	// CountByMonth groups the owner's jobs by creation year and month,
	// newest first, returning at most limit groups.
	CountByMonth(ctx context.Context, ownerID string, limit int) ([]MonthlyCount, error)
}
