package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/audit"
	"exitlayer/internal/sessions"
)

func newSubmitRouter(svc *Service, autosaver *sessions.Autosaver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, autosaver)
	h.RegisterRoutes(r)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestSubmitEndpoint(t *testing.T) {
	svc, _ := newTestServices(sessions.NewMemoryRepo())
	r := newSubmitRouter(svc, nil)

	w, body := postJSON(t, r, "/submit", acmeAnswers())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "tok-a", body["session_token"])
	assert.NotEmpty(t, body["clientFolder"])
	score, ok := body["score"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 59.0, score["overall"])

	w, _ = postJSON(t, r, "/api/v1/submit", acmeAnswers())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitEndpointExtremeRevenue(t *testing.T) {
	svc, _ := newTestServices(sessions.NewMemoryRepo())
	r := newSubmitRouter(svc, nil)

	w, body := postJSON(t, r, "/submit", `{"company_name":"Acme","full_name":"Jo","email":"jo@acme.io","revenue_12mo":1e308,"revenue_monthly_avg":1e300,"time_delivery_hrs":1e-10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])
	score, ok := body["score"].(map[string]any)
	require.True(t, ok)
	fm, ok := score["financialMetrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.0, fm["ownerHourlyValue"])
}

func TestSubmitEndpointErrors(t *testing.T) {
	svc, sess := newTestServices(sessions.NewMemoryRepo())
	r := newSubmitRouter(svc, nil)

	draft, err := sess.Create(t.Context(), "someone@else.test")
	require.NoError(t, err)

	withToken := func(token string) audit.Response {
		a := acmeAnswers()
		a[audit.KeySessionToken] = token
		return a
	}

	cases := []struct {
		name   string
		body   any
		status int
		error  string
	}{
		{"malformed", "{", http.StatusBadRequest, "Invalid request body"},
		{"array", "[]", http.StatusBadRequest, "Invalid request body"},
		{"missing fields", map[string]any{"company_name": "Acme"}, http.StatusBadRequest, "Full name is required"},
		{"unknown session", withToken("missing"), http.StatusNotFound, "Session not found"},
		{"email mismatch", withToken(draft.SessionToken), http.StatusForbidden, "Email does not match this session"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := postJSON(t, r, "/submit", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.error, body["error"])
		})
	}
}

func TestSubmitEndpointPersistFailure(t *testing.T) {
	svc, _ := newTestServices(failingRepo{sessions.NewMemoryRepo()})
	r := newSubmitRouter(svc, nil)

	w, body := postJSON(t, r, "/submit", acmeAnswers())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to save submission", body["error"])
}

func TestSubmitCancelsPendingAutosave(t *testing.T) {
	svc, sess := newTestServices(sessions.NewMemoryRepo())
	autosaver := sessions.NewAutosaver(sess, sessions.DefaultAutosaveDelay)
	t.Cleanup(func() { _ = autosaver.Close(context.Background()) })
	r := newSubmitRouter(svc, autosaver)

	draft, err := sess.Create(t.Context(), "")
	require.NoError(t, err)
	autosaver.Schedule(draft.SessionToken, audit.Response{"company_name": "Draft Co"})

	payload := acmeAnswers()
	payload[audit.KeySessionToken] = draft.SessionToken
	w, _ := postJSON(t, r, "/submit", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, pending := autosaver.Pending(draft.SessionToken)
	assert.False(t, pending)
}
