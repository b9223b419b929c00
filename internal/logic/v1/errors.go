// Package v1 provides the job tracker business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for the failures callers must tell apart.
// They are wrapped with context using fmt.Errorf("%w") when returned from
// business logic methods and matched with errors.Is in handlers.
//
// Example Usage:
//
//	if job == nil {
//	    return nil, fmt.Errorf("get job %q: %w", id, ErrJobNotFound)
//	}
//
// Error Checking (in handlers):
//
//	switch {
//	case errors.Is(err, logicv1.ErrJobNotFound):
//	    c.JSON(http.StatusNotFound, gin.H{"msg": "No job with id: " + id})
//	case errors.Is(err, logicv1.ErrDemoUserReadOnly):
//	    c.JSON(http.StatusBadRequest, gin.H{"msg": "Demo User. Read only!"})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, please try again later"})
//	}
package v1

import "errors"

// Sentinel errors for auth and job operations.
var (
	// ErrValidation indicates a payload failed validation. The concrete error
	// is a *ValidationError naming the first failing field.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials indicates the password does not match.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates no user is registered with the given email.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the email is already registered.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrJobNotFound indicates the job does not exist for the caller.
	// Jobs owned by other users are reported the same way.
	// HTTP Status: 404 Not Found
	ErrJobNotFound = errors.New("job not found")

	// ErrDemoUserReadOnly indicates a write attempted by the demo account.
	// HTTP Status: 400 Bad Request
	ErrDemoUserReadOnly = errors.New("demo user is read only")

	// ErrMissingProfileValues indicates a profile update without all four fields.
	// HTTP Status: 400 Bad Request
	ErrMissingProfileValues = errors.New("missing profile values")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
