package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
	"github.com/duynhne/jobs-service/middleware"
)

// ListJobs handles GET /api/v1/jobs.
func (h *Handler) ListJobs(c *gin.Context) {
	span := startSpan(c)
	defer span.End()

	identity, _ := middleware.IdentityFromContext(c)

	var params logicv1.ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeError(c, span, err)
		return
	}

	page, err := h.jobs.List(c.Request.Context(), identity, params)
	if err != nil {
		writeError(c, span, err)
		return
	}

	span.SetAttributes(attribute.Int("jobs.total", page.TotalJobs))
	c.JSON(http.StatusOK, page)
}

// GetJob handles GET /api/v1/jobs/:id.
func (h *Handler) GetJob(c *gin.Context) {
	span := startSpan(c)
	defer span.End()

	identity, _ := middleware.IdentityFromContext(c)

	job, err := h.jobs.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CreateJob handles POST /api/v1/jobs.
func (h *Handler) CreateJob(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()

	identity, _ := middleware.IdentityFromContext(c)

	var req domain.JobRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, span, err)
		return
	}

	job, err := h.jobs.Create(ctx, identity, req)
	if err != nil {
		writeError(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Str("job_id", job.ID).Msg("Job created")
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// UpdateJob handles PATCH /api/v1/jobs/:id.
func (h *Handler) UpdateJob(c *gin.Context) {
	span := startSpan(c)
	defer span.End()

	identity, _ := middleware.IdentityFromContext(c)

	var req domain.JobRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, span, err)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// DeleteJob handles DELETE /api/v1/jobs/:id.
func (h *Handler) DeleteJob(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	ctx := c.Request.Context()

	identity, _ := middleware.IdentityFromContext(c)
	id := c.Param("id")

	if err := h.jobs.Delete(ctx, identity, id); err != nil {
		writeError(c, span, err)
		return
	}

	logger.FromContext(ctx).Info().Str("job_id", id).Msg("Job deleted")
	c.JSON(http.StatusOK, gin.H{"msg": "Delete Successful"})
}

// ShowStats handles GET /api/v1/jobs/stats.
func (h *Handler) ShowStats(c *gin.Context) {
	span := startSpan(c)
	defer span.End()

	identity, _ := middleware.IdentityFromContext(c)

	stats, err := h.jobs.Stats(c.Request.Context(), identity)
	if err != nil {
		writeError(c, span, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
