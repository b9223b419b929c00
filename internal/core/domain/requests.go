package domain

// Request payloads use pointer fields so an absent key can be told apart
// from an empty string during validation.

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Name     *string `json:"name" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required,min=5,max=50"`
	LastName *string `json:"lastName" validate:"required,max=20"`
	Location *string `json:"location" validate:"required,max=20"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the payload of PATCH /auth/updateUser.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"required,email"`
	LastName *string `json:"lastName" validate:"required,max=20"`
	Location *string `json:"location" validate:"required,max=20"`
}

// JobRequest is the payload for creating or updating a job.
type JobRequest struct {
	Company     *string `json:"company" validate:"required,max=50"`
	Position    *string `json:"position" validate:"required,max=100"`
	Status      *string `json:"status" validate:"omitnil,oneof=interview declined pending"`
	JobType     *string `json:"jobType" validate:"omitnil,oneof=full-time part-time remote internship"`
	JobLocation *string `json:"jobLocation" validate:"omitnil,required"`
}

// AuthUser is the profile returned with a freshly issued token.
type AuthUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	LastName string `json:"lastName"`
	Location string `json:"location"`
	Token    string `json:"token"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Msg  string   `json:"msg"`
	User AuthUser `json:"user"`
}

// JobsPage is one page of a job listing.
type JobsPage struct {
	Jobs       []Job `json:"jobs"`
	TotalJobs  int   `json:"totalJobs"`
	NumOfPages int   `json:"numOfPages"`
}

// DefaultStats holds the per-status job counts shown on the dashboard.
type DefaultStats struct {
	Interview int `json:"interview"`
	Pending   int `json:"pending"`
	Declined  int `json:"declined"`
}

// MonthlyApplications is the number of jobs created in one labelled month.
type MonthlyApplications struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats is the body of GET /jobs/stats.
type Stats struct {
	DefaultStats        DefaultStats          `json:"defaultStats"`
	MonthlyApplications []MonthlyApplications `json:"monthlyApplications"`
}
