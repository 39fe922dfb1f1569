package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/admin"
	"exitlayer/internal/audit"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/auth"
	"exitlayer/internal/shared/config"
	localstore "exitlayer/internal/shared/storage/object/local"
	"exitlayer/internal/submissions"
	"exitlayer/internal/uploads"
)

func testRouter(t *testing.T, submitLimit int) (*gin.Engine, *auth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", "dev")
	require.NoError(t, err)

	sessSvc := sessions.NewService(sessions.NewMemoryRepo())
	subSvc := submissions.NewService(sessSvc)
	r := NewRouter(RouterDeps{
		Config: config.Config{
			Env:                     "test",
			RateLimitSubmit:         submitLimit,
			RateLimitSubmitWindow:   10 * time.Minute,
			RateLimitSessions:       100,
			RateLimitSessionsWindow: time.Minute,
		},
		Sessions:    sessions.NewHandler(sessSvc, nil),
		Submissions: submissions.NewHandler(subSvc, nil),
		Uploads:     uploads.NewHandler(sessSvc, localstore.New(t.TempDir())),
		Admin:       admin.NewHandler(sessSvc),
		Signer:      signer,
	})
	return r, signer
}

func send(r http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validAnswers() audit.Response {
	return audit.Response{"company_name": "Acme Agency", "full_name": "Jo Smith", "email": "jo@acme.test"}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := testRouter(t, 10)

	w := send(r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = send(r, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	send(r, http.MethodPost, "/submit", validAnswers(), nil)
	w = send(r, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "exitlayer_submissions_total")

	w = send(r, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitIsRateLimitedAcrossPaths(t *testing.T) {
	r, _ := testRouter(t, 2)

	w := send(r, http.MethodPost, "/submit", validAnswers(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	w = send(r, http.MethodPost, "/api/v1/submit", validAnswers(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/submit", validAnswers(), nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = send(r, http.MethodGet, "/api/v1/questionnaire", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestIntakeToAdminFlow(t *testing.T) {
	r, signer := testRouter(t, 10)

	w := send(r, http.MethodPost, "/api/v1/sessions", map[string]string{"email": "jo@acme.test"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Token string `json:"session_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = send(r, http.MethodPut, "/api/v1/sessions/"+created.Token, audit.Response{"company_name": "Acme Agency"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	payload := validAnswers()
	payload[audit.KeySessionToken] = created.Token
	w = send(r, http.MethodPost, "/submit", payload, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(r, http.MethodGet, "/api/v1/admin/sessions", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, err := signer.Sign("ops-1", "", auth.RoleAdmin)
	require.NoError(t, err)
	bearer := http.Header{"Authorization": []string{"Bearer " + tok}}

	w = send(r, http.MethodGet, "/api/v1/admin/sessions/"+created.Token+"/documents/build-plan", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))

	w = send(r, http.MethodPut, "/api/v1/sessions/"+created.Token, audit.Response{"company_name": "Late Edit"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
