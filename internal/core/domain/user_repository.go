package domain

import (
	"context"
	"errors"
	"time"
)

// Roles a user account can hold.
const (
	RoleUser = "user"
	RoleDemo = "demo"
)

// Profile defaults applied when a user is created without them.
const (
	DefaultLastName = "lastName"
	DefaultLocation = "my city"
)

// ErrDuplicateEmail is returned by UserRepository implementations when the
// store rejects a second account with the same email.
var ErrDuplicateEmail = errors.New("email already registered")

// User represents a user record returned from the store.
// PasswordHash is never serialized.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	LastName     string    `json:"lastName"`
	Location     string    `json:"location"`
	Role         string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// IsDemo reports whether the account is the read-only demo user.
func (u *User) IsDemo() bool {
	return u.Role == RoleDemo
}

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	Name     string
	Email    string
	LastName string
	Location string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on a driver directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*User, error)

	// Create inserts a new user and fills in its generated ID and timestamps.
	// Returns ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user *User) error

	// UpdateProfile overwrites the profile fields of the given user and
	// returns the updated record. Returns (nil, nil) when no user matches.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
}
