package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
	"github.com/duynhne/jobs-service/middleware"
)

// Handler groups HTTP handlers for the API v1.
// Dependencies are injected via the constructor, no global state.
type Handler struct {
	auth *logicv1.AuthService
	jobs *logicv1.JobService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(auth *logicv1.AuthService, jobs *logicv1.JobService) *Handler {
	return &Handler{auth: auth, jobs: jobs}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// authenticate guards the profile and job routes; rateLimit guards register and login.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authenticate, rateLimit gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.POST("/register", rateLimit, h.Register)
	auth.POST("/login", rateLimit, h.Login)
	auth.PATCH("/updateUser", authenticate, h.UpdateUser)

	jobs := rg.Group("/jobs", authenticate)
	jobs.GET("", h.ListJobs)
	jobs.POST("", h.CreateJob)
	jobs.GET("/stats", h.ShowStats)
	jobs.GET("/:id", h.GetJob)
	jobs.PATCH("/:id", h.UpdateJob)
	jobs.DELETE("/:id", h.DeleteJob)
}

// startSpan opens the web-layer span and makes it the parent for the
// logic layer by replacing the request context.
func startSpan(c *gin.Context) trace.Span {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
	c.Request = c.Request.WithContext(ctx)
	return span
}

// Register handles HTTP request for user registration.
func (h *Handler) Register(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()

	var req domain.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, span, err)
		return
	}

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		writeError(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles HTTP request for user login.
func (h *Handler) Login(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()

	var req domain.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, span, err)
		return
	}

	response, err := h.auth.Login(ctx, req)
	if err != nil {
		writeError(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// UpdateUser handles HTTP request to update the caller's profile.
// PATCH /api/v1/auth/updateUser
// Authorization: Bearer <token>
func (h *Handler) UpdateUser(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()

	identity, _ := middleware.IdentityFromContext(c)

	var req domain.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, span, err)
		return
	}

	user, err := h.auth.UpdateProfile(ctx, identity, req)
	if err != nil {
		writeError(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Str("user_id", identity.UserID).Msg("Profile updated")
	c.JSON(http.StatusOK, gin.H{"user": user})
}
