package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryUsesRouteEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	boom := func(c *gin.Context) { panic("boom") }
	r.POST("/submit", boom)
	r.GET("/api/v1/admin/sessions", boom)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var fail map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fail))
	assert.Equal(t, false, fail["success"])
	assert.NotEmpty(t, fail["error"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/sessions", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var coded struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coded))
	assert.Equal(t, "internal_error", coded.Error.Code)
}
