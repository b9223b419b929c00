package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceParentHeader = "traceparent"
)

// GetTraceID returns the id that ties log lines to a request. An active
// OpenTelemetry span wins, then the traceparent and X-Trace-ID headers.
// Header values are used only when they are valid W3C trace ids (32 lowercase
// hex characters, not all zero); otherwise a new id is generated.
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	// version-trace_id-parent_id-flags
	if parts := strings.Split(c.GetHeader(TraceParentHeader), "-"); len(parts) >= 2 {
		if traceID, ok := parseTraceID(parts[1]); ok {
			return traceID
		}
	}
	if traceID, ok := parseTraceID(c.GetHeader(TraceIDHeader)); ok {
		return traceID
	}
	return generateTraceID()
}

func parseTraceID(s string) (string, bool) {
	tid, err := trace.TraceIDFromHex(s)
	if err != nil {
		return "", false
	}
	return tid.String(), true
}

func generateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware attaches a trace-scoped zerolog logger to the request
// context and writes one access-log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := GetTraceID(c)
		c.Set("trace_id", traceID)
		c.Header(TraceIDHeader, traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := accessLogEvent(&logger, status)
		if id, ok := IdentityFromContext(c); ok {
			event = event.Str("user_id", id.UserID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", routeLabel(c)).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}

// accessLogEvent picks the level: client errors warn, server errors error.
func accessLogEvent(logger *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error()
	case status >= http.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}
