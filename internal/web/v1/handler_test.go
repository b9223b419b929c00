package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/jobs-service/internal/core/domain"
	"github.com/duynhne/jobs-service/internal/core/repository"
	logicv1 "github.com/duynhne/jobs-service/internal/logic/v1"
	"github.com/duynhne/jobs-service/internal/token"
	"github.com/duynhne/jobs-service/middleware"
)

type testServer struct {
	router *gin.Engine
	users  *repository.MemoryUserRepository
	tokens *token.Manager
	auth   *logicv1.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository()
	jobs := repository.NewMemoryJobRepository()
	tokens, err := token.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	validator := logicv1.NewValidator()
	auth := logicv1.NewAuthService(users, tokens, validator)
	handler := NewHandler(auth, logicv1.NewJobService(jobs, validator))

	limiter := middleware.NewMemoryRateLimiter()
	t.Cleanup(func() { _ = limiter.Close() })

	r := gin.New()
	handler.RegisterRoutes(r.Group("/api/v1"),
		middleware.Authenticate(tokens),
		middleware.RateLimit(limiter, 10, 15*time.Minute),
	)
	return &testServer{router: r, users: users, tokens: tokens, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and logs in, returning the bearer token.
func (s *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "secret1", "lastName": "Doe", "location": "Taipei",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "John", "email": "john@example.com", "password": "secret1", "lastName": "Doe", "location": "Taipei",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "John", user["name"])
	assert.Equal(t, "john@example.com", user["email"])
	assert.NotEmpty(t, user["_id"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	rec = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "John", "email": "john@example.com", "password": "secret1", "lastName": "Doe", "location": "Taipei",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email is already registered", decode(t, rec)["error"])
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{name: "empty body", body: nil, wantErr: "Name must be provided"},
		{name: "short name", body: gin.H{"name": "Jo"}, wantErr: "Name should have a minimum length of 3 characters"},
		{name: "wrong type", body: gin.H{"name": 42}, wantErr: "Name must be a string"},
		{name: "malformed json", body: "{", wantErr: "Request body must be valid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, decode(t, rec)["error"])
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "John", "john@example.com")

	claims, err := s.tokens.Parse(tok)
	require.NoError(t, err)
	stored, err := s.users.GetByEmail(t.Context(), "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found, please double-check the email for accuracy", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "john@example.com", "password": "nope!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Password incorrect. Please double-check the password", decode(t, rec)["msg"])
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 10; i++ {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@b.co", "password": "x"})
		require.NotEqual(t, http.StatusTooManyRequests, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests from this IP, please try again after 15 minutes", decode(t, rec)["msg"])
	assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
}

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "John", "john@example.com")

	rec := s.do(t, http.MethodPatch, "/api/v1/auth/updateUser", tok, gin.H{
		"name": "Johnny", "email": "johnny@example.com", "lastName": "Doe", "location": "Hanoi",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Johnny", user["name"])
	claims, err := s.tokens.Parse(user["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "Johnny", claims.UserName)

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/updateUser", tok, gin.H{"name": "Johnny"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide all values", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/updateUser", "", gin.H{"name": "Johnny"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobsRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodGet, "/api/v1/jobs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to this route", decode(t, rec)["msg"])
}

func TestJobsCRUD(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "John", "john@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/jobs", tok, gin.H{"company": "Acme", "position": "Backend Engineer"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	job := decode(t, rec)["job"].(map[string]any)
	id := job["_id"].(string)
	assert.Equal(t, "pending", job["status"])
	assert.Equal(t, "full-time", job["jobType"])
	assert.Equal(t, "my city", job["jobLocation"])

	rec = s.do(t, http.MethodGet, "/api/v1/jobs/"+id, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode(t, rec)["job"].(map[string]any)["_id"])

	rec = s.do(t, http.MethodPatch, "/api/v1/jobs/"+id, tok, gin.H{"company": "Acme", "position": "Lead", "status": "interview"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["job"].(map[string]any)
	assert.Equal(t, "Lead", updated["position"])
	assert.Equal(t, "interview", updated["status"])

	rec = s.do(t, http.MethodPatch, "/api/v1/jobs/"+id, tok, gin.H{"company": "Acme", "position": "Lead", "status": "hired"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status must be one of: interview, declined, pending", decode(t, rec)["error"])

	rec = s.do(t, http.MethodDelete, "/api/v1/jobs/"+id, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Delete Successful", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodGet, "/api/v1/jobs/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No job with id: "+id, decode(t, rec)["msg"])
}

func TestJobsOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "Owner", "owner@example.com")
	other := s.signup(t, "Other", "other@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/jobs", owner, gin.H{"company": "Acme", "position": "Dev"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["job"].(map[string]any)["_id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec = s.do(t, method, "/api/v1/jobs/"+id, other, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
	rec = s.do(t, http.MethodPatch, "/api/v1/jobs/"+id, other, gin.H{"company": "X", "position": "Y"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/jobs", other, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Empty(t, body["jobs"])
	assert.Equal(t, float64(0), body["totalJobs"])
}

func TestListJobs(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "John", "john@example.com")

	for _, p := range []string{"Mike", "Zed", "Alice"} {
		rec := s.do(t, http.MethodPost, "/api/v1/jobs", tok, gin.H{"company": "Acme", "position": p})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var page domain.JobsPage
	rec := s.do(t, http.MethodGet, "/api/v1/jobs?sort=z-a", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Jobs, 3)
	assert.Equal(t, []string{"Zed", "Mike", "Alice"}, positions(page.Jobs))

	rec = s.do(t, http.MethodGet, "/api/v1/jobs?limit=2&page=2", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.TotalJobs)
	assert.Equal(t, 2, page.NumOfPages)
	assert.Equal(t, []string{"Alice"}, positions(page.Jobs))

	rec = s.do(t, http.MethodGet, "/api/v1/jobs?search=ZE&status=all&jobType=all", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, []string{"Zed"}, positions(page.Jobs))

	for _, query := range []string{"?limit=9223372036854775807", "?page=2&limit=9223372036854775807"} {
		var huge domain.JobsPage
		rec = s.do(t, http.MethodGet, "/api/v1/jobs"+query, tok, nil)
		require.Equal(t, http.StatusOK, rec.Code, query)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &huge))
		assert.Equal(t, 3, huge.TotalJobs, query)
		assert.Equal(t, 1, huge.NumOfPages, query)
	}
}

func TestShowStats(t *testing.T) {
	s := newTestServer(t)
	tok := s.signup(t, "John", "john@example.com")

	for _, status := range []string{"pending", "pending", "interview"} {
		rec := s.do(t, http.MethodPost, "/api/v1/jobs", tok, gin.H{"company": "Acme", "position": "Dev", "status": status})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/api/v1/jobs/stats", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, domain.DefaultStats{Interview: 1, Pending: 2, Declined: 0}, stats.DefaultStats)
	require.Len(t, stats.MonthlyApplications, 1)
	assert.Equal(t, time.Now().UTC().Format("Jan 2006"), stats.MonthlyApplications[0].Date)
	assert.Equal(t, 3, stats.MonthlyApplications[0].Count)
}

func TestDemoUserIsReadOnly(t *testing.T) {
	s := newTestServer(t)

	email, password := "demo@example.com", "secret1"
	_, err := s.auth.Provision(t.Context(), domain.RegisterRequest{
		Name: ptr("Demo"), Email: ptr(email), Password: ptr(password),
		LastName: ptr("User"), Location: ptr("Nowhere"),
	}, domain.RoleDemo)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code)
	var login domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	tok := login.User.Token

	rec = s.do(t, http.MethodPost, "/api/v1/jobs", tok, gin.H{"company": "Acme", "position": "Dev"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Demo User. Read only!", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodPatch, "/api/v1/auth/updateUser", tok, gin.H{
		"name": "Hacker", "email": email, "lastName": "User", "location": "Nowhere",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Demo User. Read only!", decode(t, rec)["msg"])

	rec = s.do(t, http.MethodGet, "/api/v1/jobs", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func positions(jobs []domain.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Position
	}
	return out
}

func ptr(s string) *string { return &s }
