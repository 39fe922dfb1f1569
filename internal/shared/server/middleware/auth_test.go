package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/auth"
)

func adminRouter(t *testing.T) (*gin.Engine, *auth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", "dev")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	router := gin.New()
	router.Use(AdminAuth(signer))
	router.GET("/api/v1/admin/sessions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": AdminSubjectFromContext(c)})
	})
	router.OPTIONS("/api/v1/admin/sessions", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, signer
}

func TestAdminAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router, _ := adminRouter(t)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/v1/admin/sessions", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	router, signer := adminRouter(t)
	adminTok, _ := signer.Sign("ops-1", "", auth.RoleAdmin)
	viewerTok, _ := signer.Sign("viewer-1", "", "viewer")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewerTok, http.StatusForbidden},
		{"admin", "Bearer " + adminTok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}
