package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/middleware"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, userName, role string) (string, error)
}

// AuthService implements registration, login and profile rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database directly.
type AuthService struct {
	users     domain.UserRepository
	tokens    TokenIssuer
	validator *Validator
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens TokenIssuer, validator *Validator) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		validator: validator,
	}
}

// Register validates the payload and creates a regular user.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.Provision(ctx, req, domain.RoleUser)
}

// Provision creates a user with the given role. Register and the seeding
// command both go through it.
func (s *AuthService) Provision(ctx context.Context, req domain.RegisterRequest, role string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("role", role),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, fmt.Errorf("validate register request: %w", err)
	}
	email := *req.Email

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", email, err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register user %q: %w", email, ErrUserExists)
	}

	hash, err := hashPassword(*req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         *req.Name,
		Email:        email,
		PasswordHash: hash,
		LastName:     *req.LastName,
		Location:     *req.Location,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return nil, fmt.Errorf("register user %q: %w", email, ErrUserExists)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")
	return user, nil
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		return nil, fmt.Errorf("validate login request: %w", err)
	}
	email := *req.Email

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", email, err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", email, ErrUserNotFound)
	}

	if !comparePassword(user.PasswordHash, *req.Password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", email, ErrInvalidCredentials)
	}

	authUser, err := s.authUser(user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.LoginResponse{Msg: "Login Successful", User: *authUser}, nil
}

// UpdateProfile overwrites the caller's profile and issues a fresh token,
// since the name embedded in the old one may have changed.
func (s *AuthService) UpdateProfile(ctx context.Context, identity domain.Identity, req domain.UpdateProfileRequest) (*domain.AuthUser, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", identity.UserID),
	))
	defer span.End()

	if identity.Demo {
		return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrDemoUserReadOnly)
	}
	for _, v := range []*string{req.Name, req.Email, req.LastName, req.Location} {
		if v == nil || *v == "" {
			return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrMissingProfileValues)
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validate profile request: %w", err)
	}

	// The stored role wins over a token minted before the account became the demo user.
	current, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get user %q: %w", identity.UserID, err)
	}
	if current == nil {
		return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrUserNotFound)
	}
	if current.IsDemo() {
		return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrDemoUserReadOnly)
	}

	user, err := s.users.UpdateProfile(ctx, identity.UserID, domain.ProfileUpdate{
		Name:     *req.Name,
		Email:    *req.Email,
		LastName: *req.LastName,
		Location: *req.Location,
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrUserExists)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %q: %w", identity.UserID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("update profile of %q: %w", identity.UserID, ErrUserNotFound)
	}

	return s.authUser(user)
}

func (s *AuthService) authUser(user *domain.User) (*domain.AuthUser, error) {
	token, err := s.tokens.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthUser{
		Name:     user.Name,
		Email:    user.Email,
		LastName: user.LastName,
		Location: user.Location,
		Token:    token,
	}, nil
}
