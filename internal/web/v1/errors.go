package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/jobs-service/internal/logger"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
)

const internalErrorMsg = "Something went wrong, please try again later"

// bindJSON decodes the request body. An empty body decodes to the zero
// value so validation can name the first missing field.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return logicv1.TypeError(typeErr.Field)
	}
	return &logicv1.ValidationError{Message: "Request body must be valid JSON"}
}

// writeError maps a logic error to its HTTP status and body.
func writeError(c *gin.Context, span trace.Span, err error) {
	log := logger.FromContext(c.Request.Context())
	span.RecordError(err)

	var verr *logicv1.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, logicv1.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
	case errors.Is(err, logicv1.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found, please double-check the email for accuracy"})
	case errors.Is(err, logicv1.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Password incorrect. Please double-check the password"})
	case errors.Is(err, logicv1.ErrDemoUserReadOnly):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Demo User. Read only!"})
	case errors.Is(err, logicv1.ErrMissingProfileValues):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide all values"})
	case errors.Is(err, logicv1.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "No job with id: " + c.Param("id")})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": internalErrorMsg})
	}
}
