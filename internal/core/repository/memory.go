package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

var (
	_ domain.UserRepository = (*MemoryUserRepository)(nil)
	_ domain.JobRepository  = (*MemoryJobRepository)(nil)
)

// MemoryUserRepository keeps users in process memory. Used for local runs and tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if owner, taken := r.byEmail[update.Email]; taken && owner != id {
		return nil, domain.ErrDuplicateEmail
	}

	delete(r.byEmail, u.Email)
	u.Name = update.Name
	u.Email = update.Email
	u.LastName = update.LastName
	u.Location = update.Location
	u.UpdatedAt = time.Now().UTC()

	r.byID[id] = u
	r.byEmail[u.Email] = id
	return &u, nil
}

type memoryJob struct {
	seq int64
	job domain.Job
}

// MemoryJobRepository keeps jobs in process memory. Used for local runs and tests.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	seq  int64
	jobs map[string]*memoryJob
}

// NewMemoryJobRepository creates an empty MemoryJobRepository.
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]*memoryJob)}
}

func (r *MemoryJobRepository) List(_ context.Context, query domain.JobQuery) ([]domain.Job, error) {
	r.mu.RLock()
	matched := r.match(query.Filter)
	r.mu.RUnlock()

	sortMemoryJobs(matched, query.Sort)

	jobs := make([]domain.Job, 0)
	start := query.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && query.Limit < end-start {
		end = start + query.Limit
	}
	for _, m := range matched[start:end] {
		jobs = append(jobs, m.job)
	}
	return jobs, nil
}

func (r *MemoryJobRepository) Count(_ context.Context, filter domain.JobFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

func (r *MemoryJobRepository) GetByID(_ context.Context, ownerID, id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.jobs[id]
	if !ok || m.job.CreatedBy != ownerID {
		return nil, nil
	}
	job := m.job
	return &job, nil
}

func (r *MemoryJobRepository) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = job.CreatedAt

	r.seq++
	r.jobs[job.ID] = &memoryJob{seq: r.seq, job: *job}
	return nil
}

func (r *MemoryJobRepository) Update(_ context.Context, ownerID, id string, update domain.JobUpdate) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.jobs[id]
	if !ok || m.job.CreatedBy != ownerID {
		return nil, nil
	}
	m.job.Company = update.Company
	m.job.Position = update.Position
	if update.Status != nil {
		m.job.Status = *update.Status
	}
	if update.JobType != nil {
		m.job.JobType = *update.JobType
	}
	if update.JobLocation != nil {
		m.job.JobLocation = *update.JobLocation
	}
	m.job.UpdatedAt = time.Now().UTC()

	job := m.job
	return &job, nil
}

func (r *MemoryJobRepository) Delete(_ context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.jobs[id]
	if !ok || m.job.CreatedBy != ownerID {
		return false, nil
	}
	delete(r.jobs, id)
	return true, nil
}

func (r *MemoryJobRepository) CountByStatus(_ context.Context, ownerID string) ([]domain.StatusCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := make(map[string]int)
	var order []string
	for _, m := range r.jobs {
		if m.job.CreatedBy != ownerID {
			continue
		}
		s := string(m.job.Status)
		if _, seen := byStatus[s]; !seen {
			order = append(order, s)
		}
		byStatus[s]++
	}

	counts := make([]domain.StatusCount, 0, len(order))
	for _, s := range order {
		counts = append(counts, domain.StatusCount{Status: s, Count: byStatus[s]})
	}
	return counts, nil
}

func (r *MemoryJobRepository) CountByMonth(_ context.Context, ownerID string, limit int) ([]domain.MonthlyCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type yearMonth struct {
		year  int
		month time.Month
	}
	groups := make(map[yearMonth]int)
	for _, m := range r.jobs {
		if m.job.CreatedBy != ownerID {
			continue
		}
		t := m.job.CreatedAt.UTC()
		groups[yearMonth{t.Year(), t.Month()}]++
	}

	counts := make([]domain.MonthlyCount, 0, len(groups))
	for k, n := range groups {
		counts = append(counts, domain.MonthlyCount{Year: k.year, Month: k.month, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Year != counts[j].Year {
			return counts[i].Year > counts[j].Year
		}
		return counts[i].Month > counts[j].Month
	})
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// match returns the jobs selected by the filter. Callers hold the lock.
func (r *MemoryJobRepository) match(filter domain.JobFilter) []memoryJob {
	search := strings.ToLower(filter.Search)
	var matched []memoryJob
	for _, m := range r.jobs {
		j := m.job
		if j.CreatedBy != filter.CreatedBy {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(j.Position), search) {
			continue
		}
		if filter.Status != "" && string(j.Status) != filter.Status {
			continue
		}
		if filter.JobType != "" && string(j.JobType) != filter.JobType {
			continue
		}
		matched = append(matched, *m)
	}
	return matched
}

func sortMemoryJobs(jobs []memoryJob, by domain.JobSort) {
	sort.Slice(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		switch by {
		case domain.SortLatest:
			if !a.job.CreatedAt.Equal(b.job.CreatedAt) {
				return a.job.CreatedAt.After(b.job.CreatedAt)
			}
			return a.seq > b.seq
		case domain.SortOldest:
			if !a.job.CreatedAt.Equal(b.job.CreatedAt) {
				return a.job.CreatedAt.Before(b.job.CreatedAt)
			}
		case domain.SortPositionAsc:
			if a.job.Position != b.job.Position {
				return a.job.Position < b.job.Position
			}
		case domain.SortPositionDesc:
			if a.job.Position != b.job.Position {
				return a.job.Position > b.job.Position
			}
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})
}
