package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestGetTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "traceparent wins",
			headers: map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", TraceIDHeader: "other"},
			want:    "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name:    "x-trace-id",
			headers: map[string]string{TraceIDHeader: "5b8aa5a2d2c872e8321cf37308d69df2"},
			want:    "5b8aa5a2d2c872e8321cf37308d69df2",
		},
		{
			name:    "malformed traceparent falls back to x-trace-id",
			headers: map[string]string{TraceParentHeader: "00-not-hex-01", TraceIDHeader: "5b8aa5a2d2c872e8321cf37308d69df2"},
			want:    "5b8aa5a2d2c872e8321cf37308d69df2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}

	t.Run("active span wins", func(t *testing.T) {
		tid, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
		require.NoError(t, err)
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: trace.SpanID{1}})

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request = c.Request.WithContext(trace.ContextWithSpanContext(c.Request.Context(), sc))
		c.Request.Header.Set(TraceIDHeader, "ignored")
		assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", GetTraceID(c))
	})

	t.Run("generated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Len(t, GetTraceID(c), 32)
	})

	rejected := map[string]string{
		"short":         "abc123",
		"not hex":       "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"all zero":      "00000000000000000000000000000000",
		"too long":      "5b8aa5a2d2c872e8321cf37308d69df2ff",
		"log injection": "5b8aa5a2d2c872e8\n\"level\":\"error",
	}
	for name, value := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set(TraceIDHeader, value)
			c.Request.Header.Set(TraceParentHeader, "00-"+value+"-00f067aa0ba902b7-01")

			got := GetTraceID(c)
			assert.NotEqual(t, value, got)
			_, err := trace.TraceIDFromHex(got)
			assert.NoError(t, err)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var logged zerolog.Level
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/", func(c *gin.Context) {
		logged = zerolog.Ctx(c.Request.Context()).GetLevel()
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "4bf92f3577b34da6a3ce929d0e0e4736")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec.Header().Get(TraceIDHeader))
	assert.NotEqual(t, zerolog.Disabled, logged)
}

func TestAccessLogEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	for status, want := range map[int]string{200: "info", 404: "warn", 503: "error"} {
		buf.Reset()
		accessLogEvent(&logger, status).Msg("x")
		assert.Contains(t, buf.String(), `"level":"`+want+`"`, status)
	}
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}

func TestPrometheusMiddleware_RouteLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var label string
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/jobs/:id", func(c *gin.Context) {
		label = routeLabel(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/123", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/jobs/:id", label)
}
