// Package seed bulk-loads job records from a JSON file for one owner.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
)

// ErrOwnerNotFound is returned when the owner does not exist and creation was not requested.
var ErrOwnerNotFound = errors.New("seed owner not found")

// Record is one job in the seed file.
type Record struct {
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	Status      *string `json:"status"`
	JobType     *string `json:"jobType"`
	JobLocation *string `json:"jobLocation"`
	// CreatedAt is RFC 3339 or a plain 2006-01-02 date. Empty means now.
	CreatedAt string `json:"createdAt"`
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return records, nil
}

func (r Record) createdAt() (time.Time, error) {
	if r.CreatedAt == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, r.CreatedAt)
}

// Owner identifies the user the records are stored for.
type Owner struct {
	Email string
	// Create registers the owner when no user has Email. Name and Password
	// are then required; Demo makes the account read-only.
	Create   bool
	Name     string
	Password string
	Demo     bool
}

// Seeder stores records through the same services the API uses.
type Seeder struct {
	users domain.UserRepository
	auth  *logicv1.AuthService
	jobs  *logicv1.JobService
}

// NewSeeder creates a Seeder.
func NewSeeder(users domain.UserRepository, auth *logicv1.AuthService, jobs *logicv1.JobService) *Seeder {
	return &Seeder{users: users, auth: auth, jobs: jobs}
}

// Run stores every record for the owner and returns how many were inserted.
// It stops at the first invalid record.
func (s *Seeder) Run(ctx context.Context, owner Owner, records []Record) (int, error) {
	log := logger.FromContext(ctx)

	user, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	for i, rec := range records {
		createdAt, err := rec.createdAt()
		if err != nil {
			return i, fmt.Errorf("record %d: parse createdAt: %w", i, err)
		}
		req := domain.JobRequest{
			Company:     rec.Company,
			Position:    rec.Position,
			Status:      rec.Status,
			JobType:     rec.JobType,
			JobLocation: rec.JobLocation,
		}
		if _, err := s.jobs.Import(ctx, user.ID, req, createdAt); err != nil {
			return i, fmt.Errorf("record %d: %w", i, err)
		}
	}

	log.Info().Str("owner", owner.Email).Int("jobs", len(records)).Msg("Seed complete")
	return len(records), nil
}

func (s *Seeder) resolveOwner(ctx context.Context, owner Owner) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, owner.Email)
	if err != nil {
		return nil, fmt.Errorf("query owner %q: %w", owner.Email, err)
	}
	if user != nil {
		return user, nil
	}
	if !owner.Create {
		return nil, fmt.Errorf("owner %q: %w", owner.Email, ErrOwnerNotFound)
	}

	role := domain.RoleUser
	if owner.Demo {
		role = domain.RoleDemo
	}
	lastName, location := domain.DefaultLastName, domain.DefaultLocation
	user, err = s.auth.Provision(ctx, domain.RegisterRequest{
		Name:     &owner.Name,
		Email:    &owner.Email,
		Password: &owner.Password,
		LastName: &lastName,
		Location: &location,
	}, role)
	if err != nil {
		return nil, fmt.Errorf("create owner %q: %w", owner.Email, err)
	}
	logger.FromContext(ctx).Info().Str("owner", owner.Email).Str("role", role).Msg("Seed owner created")
	return user, nil
}
